package domain

// ShippingPolicy is the free-shipping threshold rule: orders strictly above
// Threshold ship free, everything else pays Fee. A cart sitting exactly at
// the threshold still pays.
type ShippingPolicy struct {
	Threshold Money
	Fee       Money
}

// DefaultShipping matches the storefront default: free above TShs 50,000,
// else a flat TShs 5,000.
var DefaultShipping = ShippingPolicy{Threshold: 50_000, Fee: 5_000}

func (p ShippingPolicy) Cost(subtotal Money) Money {
	if subtotal > p.Threshold {
		return 0
	}
	return p.Fee
}
