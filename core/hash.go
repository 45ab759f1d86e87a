package core

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// ComputeAdjustmentFactorsHash computes a hash of the adjustment factors.
//
// Formula: SHA256(sorted_key_value_pairs)
// where sorted_key_value_pairs = "bidder1:factor1|bidder2:factor2|..." (sorted by bidder name)
//
// Factors are formatted to exactly 6 decimal places for consistent hashing.
func ComputeAdjustmentFactorsHash(adjustments Adjustments) string {
	bidders := make([]string, 0, len(adjustments))
	for bidder := range adjustments {
		bidders = append(bidders, bidder)
	}
	sort.Strings(bidders)

	pairs := make([]string, 0, len(bidders))
	for _, bidder := range bidders {
		pairs = append(pairs, fmt.Sprintf("%s:%.6f", bidder, adjustments[bidder]))
	}
	hash := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return fmt.Sprintf("%x", hash)
}

// ComputeSitesHash computes a hash of the site definitions.
//
// Formula: SHA256(sorted_sites)
// where each site is "name:floor:bidder1,bidder2,..." with bidders sorted, and
// sites are sorted by name and joined with "|".
func ComputeSitesHash(sites Sites) string {
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]string, 0, len(names))
	for _, name := range names {
		site := sites[name]
		bidders := make([]string, 0, len(site.Bidders))
		for bidder := range site.Bidders {
			bidders = append(bidders, bidder)
		}
		sort.Strings(bidders)
		entries = append(entries, fmt.Sprintf("%s:%.6f:%s", name, site.Floor, strings.Join(bidders, ",")))
	}
	hash := sha256.Sum256([]byte(strings.Join(entries, "|")))
	return fmt.Sprintf("%x", hash)
}

// ComputeRosterFingerprint identifies a roster independent of map order,
// so a batch result can be traced back to the configuration that produced it.
//
// Formula: SHA256(sites_hash + "|" + adjustment_factors_hash)
func ComputeRosterFingerprint(roster *Roster) string {
	data := ComputeSitesHash(roster.Sites) + "|" + ComputeAdjustmentFactorsHash(roster.Adjustments)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
