// Package documents provides the sales document domain: one shared
// Document/LineItem model with a Kind discriminant covering quotations,
// proforma invoices and tax invoices.
package documents

import (
	"faturah/internal/core/numerator"
	"faturah/internal/domain/pricing"
)

// Kind discriminates the three sales document variants. Each kind has
// its own reference prefix, suffix width and totals-aggregation mode;
// everything else about the model is shared.
type Kind string

const (
	KindQuotation       Kind = "quotation"
	KindProformaInvoice Kind = "proforma_invoice"
	KindInvoice         Kind = "invoice"
)

// Kinds lists all document kinds.
var Kinds = []Kind{KindQuotation, KindProformaInvoice, KindInvoice}

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindQuotation, KindProformaInvoice, KindInvoice:
		return true
	}
	return false
}

// Mode returns the totals-aggregation mode for this kind.
// Invoices compute VAT per line only; quotations and proforma invoices
// use the blended formula.
func (k Kind) Mode() pricing.Mode {
	if k == KindInvoice {
		return pricing.ModeLineVAT
	}
	return pricing.ModeBlended
}

// NumberingStrategy returns the reference allocation strategy.
// Invoices and proforma invoices are accounting documents and must not
// leave gaps; quotation numbering tolerates gaps after a restart.
func (k Kind) NumberingStrategy() numerator.Strategy {
	if k == KindQuotation {
		return numerator.StrategyCached
	}
	return numerator.StrategyStrict
}

// SequenceSettings carries the numbering values that come from runtime
// configuration rather than the kind itself.
type SequenceSettings struct {
	// InvoiceStartAt is the first invoice number for a fresh tenant.
	// An offset, not a hidden constant: deployments migrating from a
	// paper series set it accordingly. Default 1.
	InvoiceStartAt int64
}

// DefaultSequenceSettings returns settings for a fresh deployment.
func DefaultSequenceSettings() SequenceSettings {
	return SequenceSettings{InvoiceStartAt: 1}
}

// SequenceConfig returns the reference format for this kind.
// The prefix+width pair is the externally observable string contract:
// QUO + 5 digits, PROFORMA + 4 digits, INV + 3 digits.
func (k Kind) SequenceConfig(settings SequenceSettings) numerator.Config {
	switch k {
	case KindProformaInvoice:
		return numerator.Config{Prefix: "PROFORMA", PadWidth: 4, StartAt: 1}
	case KindInvoice:
		startAt := settings.InvoiceStartAt
		if startAt < 1 {
			startAt = 1
		}
		return numerator.Config{Prefix: "INV", PadWidth: 3, StartAt: startAt}
	default:
		return numerator.Config{Prefix: "QUO", PadWidth: 5, StartAt: 1}
	}
}
