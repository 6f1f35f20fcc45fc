// Package numerator provides domain contracts for sequential document
// reference allocation.
package numerator

import (
	"fmt"
	"strconv"
	"strings"
)

// Strategy defines the allocation strategy.
type Strategy int

const (
	// StrategyStrict performs one counter upsert per reference.
	// Guarantees gapless sequences. Use for accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory.
	// Faster, but may leave gaps after a restart. Use for documents
	// where gaps are acceptable.
	StrategyCached
)

// Options configuration for reference allocation.
type Options struct {
	// Strategy to use for allocation
	Strategy Strategy
	// RangeSize is the number of references to reserve at once in
	// Cached strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds the reference format for one document kind.
type Config struct {
	// Prefix of all references of this kind (e.g. "QUO", "INV")
	Prefix string

	// PadWidth is the minimum width of the numeric suffix
	PadWidth int

	// StartAt is the first number allocated when no references exist.
	// Quotations and proforma invoices start at 1; the invoice start
	// is an offset taken from configuration, not a hidden constant.
	StartAt int64
}

// Format renders a reference for the given sequence number.
// The suffix grows past PadWidth rather than truncating.
func (c Config) Format(num int64) string {
	return fmt.Sprintf("%s%0*d", c.Prefix, c.PadWidth, num)
}

// ParseNumber extracts the numeric suffix from a reference of this kind.
// Returns false for references with a different prefix or a suffix that
// is not a plain integer; callers skip those rather than aborting.
func (c Config) ParseNumber(reference string) (int64, bool) {
	suffix, found := strings.CutPrefix(reference, c.Prefix)
	if !found || suffix == "" {
		return 0, false
	}
	num, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || num < 0 {
		return 0, false
	}
	return num, true
}

// MaxNumber scans existing references and returns the highest parsable
// suffix. Malformed references are skipped, never fatal. Returns 0 when
// nothing parses, so the next allocated number is StartAt.
func (c Config) MaxNumber(references []string) int64 {
	var max int64
	for _, ref := range references {
		if num, ok := c.ParseNumber(ref); ok && num > max {
			max = num
		}
	}
	return max
}
