package core

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// testRoster mirrors a small production roster: one site S with bidders A and B.
func testRoster() *Roster {
	return &Roster{
		Sites: Sites{
			"S": NewSite("S", []string{"A", "B"}, 50),
		},
		Adjustments: Adjustments{"A": 0.1, "B": 0.0},
	}
}

func TestProcessAuctions_BasicFlow(t *testing.T) {
	auctions := []Auction{
		{
			Site:  "S",
			Units: []string{"1"},
			Bids: []Bid{
				{Bidder: "A", Unit: "1", Amount: 40}, // adjusted 44, below floor
				{Bidder: "B", Unit: "1", Amount: 55}, // adjusted 55, wins
			},
		},
	}

	results := ProcessAuctions(testRoster(), auctions)

	assert.Equal(t, 1, len(results))
	check.Equal(t, []WinningBid{{Bidder: "B", Unit: "1", Amount: 55}}, results[0])
}

func TestProcessAuctions_UnknownBidderDropped(t *testing.T) {
	auctions := []Auction{
		{
			Site:  "S",
			Units: []string{"1"},
			Bids:  []Bid{{Bidder: "C", Unit: "1", Amount: 100}},
		},
	}

	results := ProcessAuctions(testRoster(), auctions)

	assert.Equal(t, 1, len(results))
	check.Equal(t, []WinningBid{}, results[0])
}

func TestProcessAuctions_UnknownSite(t *testing.T) {
	auctions := []Auction{
		{
			Site:  "unknown.com",
			Units: []string{"1"},
			Bids:  []Bid{{Bidder: "B", Unit: "1", Amount: 100}},
		},
	}

	results := ProcessAuctions(testRoster(), auctions)

	assert.Equal(t, 1, len(results))
	check.Equal(t, []WinningBid{}, results[0])
}

func TestProcessAuctions_NoBids(t *testing.T) {
	auctions := []Auction{
		{Site: "S", Units: []string{"1", "2"}, Bids: []Bid{}},
	}

	results := ProcessAuctions(testRoster(), auctions)

	assert.Equal(t, 1, len(results))
	check.Equal(t, []WinningBid{}, results[0])
}

func TestProcessAuctions_EmptyBatch(t *testing.T) {
	results := ProcessAuctions(testRoster(), []Auction{})

	check.NotNil(t, results)
	check.Equal(t, 0, len(results))
}

func TestProcessAuctions_IndexAligned(t *testing.T) {
	auctions := []Auction{
		{Site: "unknown.com", Units: []string{"1"}, Bids: []Bid{{Bidder: "B", Unit: "1", Amount: 100}}},
		{Site: "S", Units: []string{"1"}, Bids: []Bid{{Bidder: "B", Unit: "1", Amount: 70}}},
		{Site: "S", Units: []string{"1"}, Bids: []Bid{{Bidder: "B", Unit: "1", Amount: 10}}},
		{Site: "S", Units: []string{"1", "2"}, Bids: []Bid{
			{Bidder: "A", Unit: "2", Amount: 50},
			{Bidder: "B", Unit: "1", Amount: 51},
		}},
	}

	results := ProcessAuctions(testRoster(), auctions)

	assert.Equal(t, len(auctions), len(results))
	check.Equal(t, []WinningBid{}, results[0])
	check.Equal(t, []WinningBid{{Bidder: "B", Unit: "1", Amount: 70}}, results[1])
	check.Equal(t, []WinningBid{}, results[2])
	check.Equal(t, []WinningBid{
		{Bidder: "B", Unit: "1", Amount: 51},
		{Bidder: "A", Unit: "2", Amount: 50},
	}, results[3])
}

func TestProcessAuctions_Idempotent(t *testing.T) {
	roster := testRoster()
	auctions := []Auction{
		{Site: "S", Units: []string{"1", "2"}, Bids: []Bid{
			{Bidder: "A", Unit: "1", Amount: 48},
			{Bidder: "B", Unit: "1", Amount: 52.8},
			{Bidder: "B", Unit: "2", Amount: 49.99},
			{Bidder: "C", Unit: "3", Amount: 500},
		}},
		{Site: "other", Units: []string{"1"}},
	}

	first := ProcessAuctions(roster, auctions)
	second := ProcessAuctions(roster, auctions)

	check.Equal(t, first, second)
	check.Equal(t, testRoster().Adjustments, roster.Adjustments)
	check.Equal(t, ComputeRosterFingerprint(testRoster()), ComputeRosterFingerprint(roster))
}

func TestResolveAuction_CollectsRejections(t *testing.T) {
	auction := Auction{
		Site:  "S",
		Units: []string{"1"},
		Bids: []Bid{
			{Bidder: "C", Unit: "9", Amount: 100}, // invalid on every count
			{Bidder: "A", Unit: "9", Amount: 100}, // undeclared unit
			{Bidder: "A", Unit: "1", Amount: 40},  // below floor
			{Bidder: "B", Unit: "1", Amount: 55},
		},
	}

	result := ResolveAuction(testRoster(), auction, PolicyAllOf)

	check.False(t, result.UnknownSite)
	check.Equal(t, []WinningBid{{Bidder: "B", Unit: "1", Amount: 55}}, result.Winners)
	check.Equal(t, []RejectedBid{
		{Bid: auction.Bids[0], Reason: ReasonInvalidBid},
		{Bid: auction.Bids[1], Reason: ReasonUnknownUnit},
		{Bid: auction.Bids[2], Reason: ReasonBelowFloor},
	}, result.Rejected)
}

func TestResolveAuction_UnknownSite(t *testing.T) {
	result := ResolveAuction(testRoster(), Auction{Site: "nowhere"}, PolicyAllOf)

	check.True(t, result.UnknownSite)
	check.Equal(t, []WinningBid{}, result.Winners)
}

func TestProcessor_AnyOfPolicy(t *testing.T) {
	roster := testRoster()
	roster.Adjustments["OUTSIDER"] = 1.0

	auctions := []Auction{
		{Site: "S", Units: []string{"1"}, Bids: []Bid{
			{Bidder: "OUTSIDER", Unit: "1", Amount: 90}, // known but not allowed on S
			{Bidder: "B", Unit: "1", Amount: 60},
		}},
	}

	lenient := NewProcessor(roster, PolicyAllOf).Process(auctions)
	strict := NewProcessor(roster, PolicyAnyOf).Process(auctions)

	check.Equal(t, []WinningBid{{Bidder: "OUTSIDER", Unit: "1", Amount: 90}}, lenient[0])
	check.Equal(t, []WinningBid{{Bidder: "B", Unit: "1", Amount: 60}}, strict[0])
}

func TestProcessor_Resolve(t *testing.T) {
	auctions := []Auction{
		{Site: "nowhere", Units: []string{"1"}},
		{Site: "S", Units: []string{"1"}, Bids: []Bid{{Bidder: "B", Unit: "1", Amount: 55}}},
	}

	results := NewProcessor(testRoster(), PolicyAllOf).Resolve(auctions)

	assert.Equal(t, 2, len(results))
	check.True(t, results[0].UnknownSite)
	check.False(t, results[1].UnknownSite)
	check.Equal(t, 1, len(results[1].Winners))
}

func TestProcessor_WithLoggerScopesBidDiagnostics(t *testing.T) {
	observed, logs := observer.New(zap.DebugLevel)
	logger := zap.New(observed).With(zap.String("run_id", "r1"))

	auctions := []Auction{
		{Site: "nowhere", Units: []string{"1"}},
		{Site: "S", Units: []string{"1", "2"}, Bids: []Bid{
			{Bidder: "B", Unit: "1", Amount: 10},
			{Bidder: "C", Unit: "1", Amount: 90},
		}},
	}

	NewProcessor(testRoster(), PolicyAllOf).WithLogger(logger).Process(auctions)

	for _, msg := range []string{
		"ignoring auction for unrecognized site",
		"ignoring bid below floor",
		"ignoring bid from bidder without adjustment",
		"no valid bid for unit",
		"all auctions processed",
	} {
		check.True(t, logs.FilterMessage(msg).Len() > 0)
	}

	for _, entry := range logs.All() {
		check.Equal(t, "r1", entry.ContextMap()["run_id"])
	}
}
