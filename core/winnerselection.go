package core

import (
	"go.uber.org/zap"
)

// SelectWinner scans bids in order and returns the one with the highest
// adjusted value that meets the floor. A later bid replaces the leader only
// when strictly greater, so ties go to the earliest bid. The returned bid
// carries its raw amount.
func SelectWinner(bids []Bid, floor float64, adjustments Adjustments) (Bid, bool) {
	winner, _, found := selectWinner(zap.L(), bids, floor, adjustments)
	return winner, found
}

func selectWinner(log *zap.Logger, bids []Bid, floor float64, adjustments Adjustments) (Bid, []RejectedBid, bool) {
	var (
		winner     Bid
		winnerReal float64
		found      bool
	)
	rejected := make([]RejectedBid, 0)

	for _, bid := range bids {
		adjusted, ok := adjustedBidFor(bid, adjustments)
		if !ok {
			log.Debug("ignoring bid from bidder without adjustment",
				zap.String("bidder", bid.Bidder),
				zap.String("unit", bid.Unit),
			)
			rejected = append(rejected, RejectedBid{Bid: bid, Reason: ReasonUnknownBidder})
			continue
		}

		if !BidMeetsFloor(adjusted, floor) {
			log.Debug("ignoring bid below floor",
				zap.String("bidder", bid.Bidder),
				zap.String("unit", bid.Unit),
				zap.Float64("bid", bid.Amount),
				zap.Float64("adjusted", adjusted),
				zap.Float64("floor", floor),
			)
			rejected = append(rejected, RejectedBid{Bid: bid, Reason: ReasonBelowFloor})
			continue
		}

		if !found || adjusted > winnerReal {
			winner = bid
			winnerReal = adjusted
			found = true
		}
	}

	return winner, rejected, found
}

// SelectWinnersByUnit picks a winner for every unit in declared order.
// Units without a winner are left out.
func SelectWinnersByUnit(bidsByUnit BidsByUnit, floor float64, adjustments Adjustments) []WinningBid {
	winners, _ := selectWinnersByUnit(zap.L(), bidsByUnit, floor, adjustments)
	return winners
}

func selectWinnersByUnit(log *zap.Logger, bidsByUnit BidsByUnit, floor float64, adjustments Adjustments) ([]WinningBid, []RejectedBid) {
	winners := make([]WinningBid, 0, len(bidsByUnit.Units()))
	rejected := make([]RejectedBid, 0)

	for _, unit := range bidsByUnit.Units() {
		winner, unitRejected, found := selectWinner(log, bidsByUnit.Bids(unit), floor, adjustments)
		rejected = append(rejected, unitRejected...)
		if !found {
			log.Debug("no valid bid for unit", zap.String("unit", unit))
			continue
		}
		winners = append(winners, winner)
	}

	return winners, rejected
}
