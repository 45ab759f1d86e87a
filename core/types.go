package core

// Site is a publisher site with the bidders allowed to bid on it and its floor price.
type Site struct {
	Name    string
	Bidders map[string]struct{}
	Floor   float64
}

// NewSite builds a Site from a bidder list.
func NewSite(name string, bidders []string, floor float64) Site {
	allowed := make(map[string]struct{}, len(bidders))
	for _, bidder := range bidders {
		allowed[bidder] = struct{}{}
	}
	return Site{Name: name, Bidders: allowed, Floor: floor}
}

// Allows reports whether bidder may bid on the site.
func (s Site) Allows(bidder string) bool {
	_, ok := s.Bidders[bidder]
	return ok
}

// Sites indexes sites by name.
type Sites map[string]Site

// Adjustments maps a bidder name to its adjustment factor.
type Adjustments map[string]float64

// Roster is the read-only configuration shared by every auction of a batch.
type Roster struct {
	Sites       Sites
	Adjustments Adjustments
}

// Bid represents a single bid on one unit of an auction.
type Bid struct {
	Bidder string  `json:"bidder" cbor:"bidder"`
	Unit   string  `json:"unit" cbor:"unit"`
	Amount float64 `json:"bid" cbor:"bid"`
}

// WinningBid is the raw bid that won its unit.
type WinningBid = Bid

// Auction is one entry of an input batch.
type Auction struct {
	Site  string
	Units []string
	Bids  []Bid
}

// RejectionReason explains why a bid was dropped from contention.
type RejectionReason string

const (
	ReasonInvalidBid    RejectionReason = "invalid_bid"
	ReasonUnknownUnit   RejectionReason = "unknown_unit"
	ReasonUnknownBidder RejectionReason = "unknown_bidder"
	ReasonBelowFloor    RejectionReason = "below_floor"
)

// RejectedBid represents a bid that was excluded from the auction.
type RejectedBid struct {
	Bid    Bid             `json:"bid"`
	Reason RejectionReason `json:"reason"`
}

// AuctionResult contains the outcome of resolving one auction.
type AuctionResult struct {
	// Winners holds one entry per unit with a winner, in declared unit order
	Winners []WinningBid

	// Rejected contains bids dropped during validation or floor enforcement
	Rejected []RejectedBid

	// UnknownSite is set when the auction named a site missing from the roster
	UnknownSite bool
}
