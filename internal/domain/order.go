package domain

import "fmt"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// AllStatuses lists every order status in happy-path order, cancelled last.
var AllStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
}

// transitions is the closed edge table. Absence of an edge means the
// transition is forbidden; DELIVERED and CANCELLED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ValidStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0 && ValidStatus(s)
}

// CanTransition reports whether from → to is an edge in the table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition when from → to is not an
// allowed edge.
func CheckTransition(from, to OrderStatus) error {
	if !ValidStatus(from) || !ValidStatus(to) || !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
