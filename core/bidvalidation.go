package core

import (
	"fmt"

	"go.uber.org/zap"
)

// AdmissionPolicy decides how the three negative checks of a bid combine.
// The checks are: bidder not allowed on the site, bidder without an adjustment
// factor, and unit not declared by the auction.
type AdmissionPolicy string

const (
	// PolicyAllOf rejects a bid only when all three checks fail at once.
	PolicyAllOf AdmissionPolicy = "all_of"
	// PolicyAnyOf rejects a bid when any of the three checks fails.
	PolicyAnyOf AdmissionPolicy = "any_of"
)

// ParseAdmissionPolicy maps a policy name to an AdmissionPolicy.
// An empty name selects PolicyAllOf.
func ParseAdmissionPolicy(name string) (AdmissionPolicy, error) {
	switch AdmissionPolicy(name) {
	case "", PolicyAllOf:
		return PolicyAllOf, nil
	case PolicyAnyOf:
		return PolicyAnyOf, nil
	default:
		return "", fmt.Errorf("unknown admission policy %q (want %q or %q)", name, PolicyAllOf, PolicyAnyOf)
	}
}

func (p AdmissionPolicy) rejects(unauthorized, unknownBidder, undeclaredUnit bool) bool {
	if p == PolicyAnyOf {
		return unauthorized || unknownBidder || undeclaredUnit
	}
	return unauthorized && unknownBidder && undeclaredUnit
}

// BidsByUnit groups admissible bids by unit, keeping the declared unit order.
type BidsByUnit struct {
	units []string
	bids  map[string][]Bid
}

func newBidsByUnit(units []string) BidsByUnit {
	grouped := BidsByUnit{
		units: make([]string, 0, len(units)),
		bids:  make(map[string][]Bid, len(units)),
	}
	for _, unit := range units {
		if _, seen := grouped.bids[unit]; seen {
			continue
		}
		grouped.units = append(grouped.units, unit)
		grouped.bids[unit] = []Bid{}
	}
	return grouped
}

// add appends bid to its unit list. Returns false if the unit was not declared.
func (b BidsByUnit) add(bid Bid) bool {
	list, ok := b.bids[bid.Unit]
	if !ok {
		return false
	}
	b.bids[bid.Unit] = append(list, bid)
	return true
}

// Units returns the declared units in order.
func (b BidsByUnit) Units() []string {
	return b.units
}

// Bids returns the admissible bids for unit in submission order.
func (b BidsByUnit) Bids(unit string) []Bid {
	return b.bids[unit]
}

// Len returns the total number of admissible bids across all units.
func (b BidsByUnit) Len() int {
	n := 0
	for _, list := range b.bids {
		n += len(list)
	}
	return n
}

// Empty reports whether no unit holds an admissible bid.
func (b BidsByUnit) Empty() bool {
	return b.Len() == 0
}

// ValidateBids filters the raw bids of one auction and groups the admissible
// ones by declared unit. Every declared unit gets a list, possibly empty.
// Inputs are never modified.
func ValidateBids(bids []Bid, site Site, adjustments Adjustments, units []string, policy AdmissionPolicy) (BidsByUnit, []RejectedBid) {
	return validateBids(zap.L(), bids, site, adjustments, units, policy)
}

func validateBids(log *zap.Logger, bids []Bid, site Site, adjustments Adjustments, units []string, policy AdmissionPolicy) (BidsByUnit, []RejectedBid) {
	grouped := newBidsByUnit(units)
	rejected := make([]RejectedBid, 0)

	for _, bid := range bids {
		_, known := adjustments[bid.Bidder]
		_, declared := grouped.bids[bid.Unit]

		if policy.rejects(!site.Allows(bid.Bidder), !known, !declared) {
			log.Debug("ignoring invalid bid",
				zap.String("site", site.Name),
				zap.String("bidder", bid.Bidder),
				zap.String("unit", bid.Unit),
				zap.Float64("bid", bid.Amount),
			)
			rejected = append(rejected, RejectedBid{Bid: bid, Reason: ReasonInvalidBid})
			continue
		}

		if !grouped.add(bid) {
			log.Debug("ignoring bid for undeclared unit",
				zap.String("site", site.Name),
				zap.String("bidder", bid.Bidder),
				zap.String("unit", bid.Unit),
			)
			rejected = append(rejected, RejectedBid{Bid: bid, Reason: ReasonUnknownUnit})
		}
	}

	return grouped, rejected
}
