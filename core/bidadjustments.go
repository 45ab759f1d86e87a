package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// AdjustedBid returns the real value of a raw bid: raw + raw*factor.
// Uses decimal arithmetic so that e.g. 100 adjusted by 0.1 is exactly 110.
// Non-finite inputs cannot be represented as decimals and use plain float arithmetic.
func AdjustedBid(raw, factor float64) float64 {
	if !isFinite(raw) || !isFinite(factor) {
		return raw + raw*factor
	}

	rawDecimal := decimal.NewFromFloat(raw)
	factorDecimal := decimal.NewFromFloat(factor)

	adjustedDecimal := rawDecimal.Add(rawDecimal.Mul(factorDecimal))

	// Convert back to float64
	result, _ := adjustedDecimal.Float64()
	return result
}

// adjustedBidFor looks up the bidder's factor and adjusts the bid.
// Returns false when the bidder has no adjustment factor.
func adjustedBidFor(bid Bid, adjustments Adjustments) (float64, bool) {
	factor, ok := adjustments[bid.Bidder]
	if !ok {
		return 0, false
	}
	return AdjustedBid(bid.Amount, factor), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
