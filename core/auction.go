package core

import (
	"go.uber.org/zap"
)

// ResolveAuction executes the auction logic for one auction: validation → adjustment →
// floor enforcement → per-unit winner selection.
//
// Parameters:
//   - roster: Sites and per-bidder adjustment factors
//   - auction: Site name, declared units and raw bids
//   - policy: How the bid admissibility checks combine
//
// Returns:
//   - AuctionResult containing winners in declared unit order and rejected bids
//
// An unknown site is not an error: the result has no winners and UnknownSite set.
func ResolveAuction(roster *Roster, auction Auction, policy AdmissionPolicy) AuctionResult {
	return resolveAuction(zap.L(), roster, auction, policy)
}

func resolveAuction(log *zap.Logger, roster *Roster, auction Auction, policy AdmissionPolicy) AuctionResult {
	site, ok := roster.Sites[auction.Site]
	if !ok {
		log.Info("ignoring auction for unrecognized site", zap.String("site", auction.Site))
		return AuctionResult{
			Winners:     []WinningBid{},
			Rejected:    []RejectedBid{},
			UnknownSite: true,
		}
	}

	// Step 1: Group admissible bids by declared unit
	bidsByUnit, rejected := validateBids(log, auction.Bids, site, roster.Adjustments, auction.Units, policy)
	if bidsByUnit.Empty() {
		return AuctionResult{Winners: []WinningBid{}, Rejected: rejected}
	}

	// Step 2: Adjust, enforce the site floor and pick one winner per unit
	winners, belowFloor := selectWinnersByUnit(log, bidsByUnit, site.Floor, roster.Adjustments)

	return AuctionResult{
		Winners:  winners,
		Rejected: append(rejected, belowFloor...),
	}
}

// ProcessAuctions resolves every auction of a batch with the default admission
// policy. Output index i always holds the winners of auctions[i].
func ProcessAuctions(roster *Roster, auctions []Auction) [][]WinningBid {
	return NewProcessor(roster, PolicyAllOf).Process(auctions)
}

// Processor resolves batches of auctions against a fixed roster.
type Processor struct {
	roster *Roster
	policy AdmissionPolicy
	logger *zap.Logger
}

// NewProcessor creates a Processor. The roster is only read.
func NewProcessor(roster *Roster, policy AdmissionPolicy) *Processor {
	return &Processor{
		roster: roster,
		policy: policy,
		logger: zap.L(),
	}
}

// WithLogger returns a copy of the processor logging to logger. Per-bid
// diagnostics and the batch summary both go to logger.
func (p *Processor) WithLogger(logger *zap.Logger) *Processor {
	clone := *p
	clone.logger = logger
	return &clone
}

// Process returns the winners of every auction, index-aligned with auctions.
func (p *Processor) Process(auctions []Auction) [][]WinningBid {
	results := p.Resolve(auctions)

	winners := make([][]WinningBid, len(results))
	for i, result := range results {
		winners[i] = result.Winners
	}
	return winners
}

// Resolve returns the full result of every auction, index-aligned with auctions.
func (p *Processor) Resolve(auctions []Auction) []AuctionResult {
	results := make([]AuctionResult, 0, len(auctions))

	var unknownSites, winners, rejected int
	for _, auction := range auctions {
		result := resolveAuction(p.logger, p.roster, auction, p.policy)
		if result.UnknownSite {
			unknownSites++
		}
		winners += len(result.Winners)
		rejected += len(result.Rejected)
		results = append(results, result)
	}

	p.logger.Info("all auctions processed",
		zap.Int("auctions", len(auctions)),
		zap.Int("unknown_sites", unknownSites),
		zap.Int("winners", winners),
		zap.Int("rejected_bids", rejected),
		zap.String("policy", string(p.policy)),
	)

	return results
}
