package auctionapi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/cloudx-io/siteauction/core"
)

// Format names a batch serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat maps a format name to a Format. An empty name selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want %q or %q)", name, FormatJSON, FormatCBOR)
	}
}

// DecodeBatch reads a whole batch of auction requests from r.
func DecodeBatch(r io.Reader, format Format) (*Batch, error) {
	var requests []AuctionRequest

	switch format {
	case FormatCBOR:
		if err := cbor.NewDecoder(r).Decode(&requests); err != nil {
			return nil, fmt.Errorf("decode cbor batch: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&requests); err != nil {
			return nil, fmt.Errorf("decode json batch: %w", err)
		}
	}

	return NewBatch(requests), nil
}

// DecodeAuctions reads a whole batch of auction requests from r.
func DecodeAuctions(r io.Reader, format Format) ([]core.Auction, error) {
	batch, err := DecodeBatch(r, format)
	if err != nil {
		return nil, err
	}
	return batch.Auctions, nil
}

// EncodeResults writes the winners of b to w, index-aligned with b.Auctions.
// Units come out in the kind they were sent in.
func (b *Batch) EncodeResults(w io.Writer, format Format, results [][]core.WinningBid) error {
	return encodeRecords(w, format, b.Records(results))
}

// EncodeResults writes the winners of a batch to w, index-aligned with the input.
// Units are written as strings.
func EncodeResults(w io.Writer, format Format, results [][]core.WinningBid) error {
	return encodeRecords(w, format, FromWinners(results))
}

// encodeRecords writes records to w. JSON output is indented with four spaces.
func encodeRecords(w io.Writer, format Format, records [][]WinnerRecord) error {
	switch format {
	case FormatCBOR:
		if err := cbor.NewEncoder(w).Encode(records); err != nil {
			return fmt.Errorf("encode cbor results: %w", err)
		}
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "    ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encode json results: %w", err)
		}
	}

	return nil
}
