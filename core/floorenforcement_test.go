package core

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestBidMeetsFloor(t *testing.T) {
	tests := []struct {
		name     string
		adjusted float64
		floor    float64
		expected bool
	}{
		{"bid above floor", 55.0, 50.0, true},
		{"bid at floor", 50.0, 50.0, true},
		{"bid below floor", 44.0, 50.0, false},
		{"zero floor - always passes", 1.0, 0.0, true},
		{"zero floor with zero bid", 0.0, 0.0, true},
		{"negative bid below floor", -1.0, 2.5, false},
		{"negative bid with zero floor", -1.0, 0.0, false},
		{"just below floor fails", 2.499999999, 2.5, false},
		{"fraction of a hundredth below floor fails", 49.99996, 50.0, false},
		{"decimal precision edge case - fails", 2.4999, 2.5, false},
		{"very small difference - passes", 2.5001, 2.5, true},
		{"NaN bid never meets floor", math.NaN(), 0.0, false},
		{"infinite bid meets floor", math.Inf(1), 50.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, BidMeetsFloor(tt.adjusted, tt.floor))
		})
	}
}

func TestBidMeetsFloor_AdjustedAtFloor(t *testing.T) {
	// 40 marked up 25% lands exactly on the floor
	adjusted := AdjustedBid(40, 0.25)

	check.Equal(t, 50.0, adjusted)
	check.True(t, BidMeetsFloor(adjusted, 50.0))
}

func TestProcessAuctions_BidJustBelowFloorLoses(t *testing.T) {
	roster := &Roster{
		Sites:       Sites{"S": NewSite("S", []string{"B"}, 50)},
		Adjustments: Adjustments{"B": 0},
	}
	auctions := []Auction{{
		Site:  "S",
		Units: []string{"1"},
		Bids:  []Bid{{Bidder: "B", Unit: "1", Amount: 49.99996}},
	}}

	check.Equal(t, [][]WinningBid{{}}, ProcessAuctions(roster, auctions))
}
