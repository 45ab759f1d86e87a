package core

import (
	"github.com/shopspring/decimal"
)

// BidMeetsFloor returns true if the adjusted bid meets or exceeds the floor price.
// The comparison is exact: a bid any amount below the floor does not meet it.
func BidMeetsFloor(adjustedBid, floor float64) bool {
	if !isFinite(adjustedBid) || !isFinite(floor) {
		return adjustedBid >= floor
	}

	bidDecimal := decimal.NewFromFloat(adjustedBid)
	floorDecimal := decimal.NewFromFloat(floor)

	return bidDecimal.GreaterThanOrEqual(floorDecimal)
}
