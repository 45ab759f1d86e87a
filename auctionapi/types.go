package auctionapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/cloudx-io/siteauction/core"
)

// UnitID identifies a unit of inventory. Batches may carry units as strings or
// as numbers. The kind is kept so a winner echoes its unit as it was sent, and
// 1 and "1" stay distinct units.
type UnitID struct {
	Text    string
	Numeric bool
}

// StringUnit returns the unit sent as the string s.
func StringUnit(s string) UnitID {
	return UnitID{Text: s}
}

// NumericUnit returns the unit sent as the number written text.
func NumericUnit(text string) UnitID {
	return UnitID{Text: text, Numeric: true}
}

func (u UnitID) String() string {
	return u.Text
}

func (u *UnitID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode unit: %w", err)
		}
		*u = StringUnit(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil || n == "" {
		return fmt.Errorf("unit must be a string or number: %s", data)
	}
	*u = NumericUnit(n.String())
	return nil
}

func (u UnitID) MarshalJSON() ([]byte, error) {
	if u.Numeric {
		return []byte(u.Text), nil
	}
	return json.Marshal(u.Text)
}

func (u *UnitID) UnmarshalCBOR(data []byte) error {
	var v any
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode unit: %w", err)
	}

	switch val := v.(type) {
	case string:
		*u = StringUnit(val)
	case uint64:
		*u = NumericUnit(strconv.FormatUint(val, 10))
	case int64:
		*u = NumericUnit(strconv.FormatInt(val, 10))
	case float64:
		*u = NumericUnit(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return fmt.Errorf("unit must be a string or number, got %T", v)
	}
	return nil
}

func (u UnitID) MarshalCBOR() ([]byte, error) {
	if !u.Numeric {
		return cbor.Marshal(u.Text)
	}
	if n, err := strconv.ParseUint(u.Text, 10, 64); err == nil {
		return cbor.Marshal(n)
	}
	if n, err := strconv.ParseInt(u.Text, 10, 64); err == nil {
		return cbor.Marshal(n)
	}
	f, err := strconv.ParseFloat(u.Text, 64)
	if err != nil {
		return nil, fmt.Errorf("encode unit %q: %w", u.Text, err)
	}
	return cbor.Marshal(f)
}

// BidRecord is one bid of an auction request.
type BidRecord struct {
	Bidder string  `json:"bidder" cbor:"bidder"`
	Unit   UnitID  `json:"unit" cbor:"unit"`
	Bid    float64 `json:"bid" cbor:"bid"`
}

// AuctionRequest is one entry of the input batch.
type AuctionRequest struct {
	Site  string      `json:"site" cbor:"site"`
	Units []UnitID    `json:"units" cbor:"units"`
	Bids  []BidRecord `json:"bids" cbor:"bids"`
}

// WinnerRecord is one winning bid of the output. Fields are declared in
// alphabetical order so JSON keys come out sorted.
type WinnerRecord struct {
	Bid    float64 `json:"bid" cbor:"bid"`
	Bidder string  `json:"bidder" cbor:"bidder"`
	Unit   UnitID  `json:"unit" cbor:"unit"`
}

// unitKeys assigns every distinct unit of one auction the string key the core
// groups bids by. A unit keeps its text as key unless another unit of a
// different kind already holds it.
type unitKeys struct {
	byUnit map[UnitID]string
	byKey  map[string]UnitID
}

func newUnitKeys() *unitKeys {
	return &unitKeys{
		byUnit: make(map[UnitID]string),
		byKey:  make(map[string]UnitID),
	}
}

func (k *unitKeys) key(unit UnitID) string {
	if key, ok := k.byUnit[unit]; ok {
		return key
	}

	key := unit.Text
	for {
		if _, taken := k.byKey[key]; !taken {
			break
		}
		key += "#"
	}

	k.byUnit[unit] = key
	k.byKey[key] = unit
	return key
}

// unit maps a core key back to the unit it was assigned to. Keys never
// assigned come back as string units.
func (k *unitKeys) unit(key string) UnitID {
	if k != nil {
		if unit, ok := k.byKey[key]; ok {
			return unit
		}
	}
	return StringUnit(key)
}

// ToAuction converts the request into the core representation.
func (r AuctionRequest) ToAuction() core.Auction {
	auction, _ := r.toAuction()
	return auction
}

func (r AuctionRequest) toAuction() (core.Auction, *unitKeys) {
	keys := newUnitKeys()

	units := make([]string, len(r.Units))
	for i, unit := range r.Units {
		units[i] = keys.key(unit)
	}

	bids := make([]core.Bid, len(r.Bids))
	for i, bid := range r.Bids {
		bids[i] = core.Bid{
			Bidder: bid.Bidder,
			Unit:   keys.key(bid.Unit),
			Amount: bid.Bid,
		}
	}

	return core.Auction{Site: r.Site, Units: units, Bids: bids}, keys
}

// Batch is a decoded input batch. It remembers how each auction sent its
// units so results can echo them.
type Batch struct {
	Auctions []core.Auction
	units    []*unitKeys
}

// NewBatch converts a batch of requests, preserving order.
func NewBatch(requests []AuctionRequest) *Batch {
	batch := &Batch{
		Auctions: make([]core.Auction, len(requests)),
		units:    make([]*unitKeys, len(requests)),
	}
	for i, req := range requests {
		batch.Auctions[i], batch.units[i] = req.toAuction()
	}
	return batch
}

// ToAuctions converts a batch of requests, preserving order.
func ToAuctions(requests []AuctionRequest) []core.Auction {
	return NewBatch(requests).Auctions
}

// Records converts the results of processing b into output records. results[i]
// must hold the winners of b.Auctions[i].
func (b *Batch) Records(results [][]core.WinningBid) [][]WinnerRecord {
	records := make([][]WinnerRecord, len(results))
	for i, winners := range results {
		var keys *unitKeys
		if i < len(b.units) {
			keys = b.units[i]
		}
		records[i] = winnerRecords(winners, keys)
	}
	return records
}

// FromWinners converts core results into output records with string units.
// Every auction gets a non-nil list so empty results encode as [] rather than null.
func FromWinners(results [][]core.WinningBid) [][]WinnerRecord {
	records := make([][]WinnerRecord, len(results))
	for i, winners := range results {
		records[i] = winnerRecords(winners, nil)
	}
	return records
}

func winnerRecords(winners []core.WinningBid, keys *unitKeys) []WinnerRecord {
	records := make([]WinnerRecord, len(winners))
	for j, winner := range winners {
		records[j] = WinnerRecord{
			Bid:    winner.Amount,
			Bidder: winner.Bidder,
			Unit:   keys.unit(winner.Unit),
		}
	}
	return records
}
