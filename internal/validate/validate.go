package validate

import (
	"regexp"
	"strconv"
	"strings"

	"aurelia/internal/domain"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ       = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePayment = regexp.MustCompile(`^(card|mobile-money|bank-transfer)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses a line quantity. Non-positive or unparsable input is rejected
// rather than clamped; the ledger treats that as an invalid-quantity error.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PriceBound parses an optional price filter bound in minor units.
// Empty input means unbounded; negative or non-numeric input is rejected.
func PriceBound(s string) (*domain.Money, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, false
	}
	m := domain.Money(n)
	return &m, true
}

// SortKey normalizes the catalog sort selector; empty means name-asc.
func SortKey(s string) (domain.SortKey, bool) {
	switch domain.SortKey(strings.TrimSpace(s)) {
	case "", domain.SortNameAsc:
		return domain.SortNameAsc, true
	case domain.SortPriceAsc:
		return domain.SortPriceAsc, true
	case domain.SortPriceDesc:
		return domain.SortPriceDesc, true
	}
	return "", false
}

// Status validates an order status form value against the known enum.
func Status(s string) (domain.OrderStatus, bool) {
	st := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, domain.ValidStatus(st)
}

// ID validates a simple resource identifier (product/category/line ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}

// Address validates a free-form shipping address.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Payment validates the payment method tag.
func Payment(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, rePayment.MatchString(s)
}

// Password enforces a simple strength window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
