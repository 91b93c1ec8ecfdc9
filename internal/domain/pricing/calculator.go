// internal/domain/pricing/calculator.go
package pricing

import "math"

// ShippingConfig holds the server-supplied thresholds and rates that
// control the shipping-fee waiver and tax computation.
type ShippingConfig struct {
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	ShippingFee           float64 `json:"shippingFee"`
	TaxRate               float64 `json:"taxRate"`
}

// Quote is a full pricing breakdown for a subtotal. It is the single
// shared derivation used by the cart summary and the checkout view, so
// the two can never disagree.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shippingFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// Round2 rounds to 2 decimal places using half-up rounding on the scaled
// integer, so repeated derivations cannot accumulate float drift.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ShippingFee returns the flat fee, waived at and above the free-shipping
// threshold. The threshold is inclusive.
func ShippingFee(subtotal float64, cfg ShippingConfig) float64 {
	if subtotal >= cfg.FreeShippingThreshold {
		return 0
	}
	return cfg.ShippingFee
}

// Tax returns the tax on a subtotal, rounded to cents
func Tax(subtotal float64, cfg ShippingConfig) float64 {
	return Round2(subtotal * cfg.TaxRate)
}

// Total returns subtotal plus shipping fee plus tax
func Total(subtotal float64, cfg ShippingConfig) float64 {
	return Round2(subtotal + ShippingFee(subtotal, cfg) + Tax(subtotal, cfg))
}

// Calculate derives the full breakdown for a subtotal
func Calculate(subtotal float64, cfg ShippingConfig) Quote {
	fee := ShippingFee(subtotal, cfg)
	tax := Tax(subtotal, cfg)

	return Quote{
		Subtotal:    Round2(subtotal),
		ShippingFee: fee,
		Tax:         tax,
		Total:       Round2(subtotal + fee + tax),
	}
}
