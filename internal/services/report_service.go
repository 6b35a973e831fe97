package services

import (
	"aurelia/internal/domain"
	"aurelia/internal/repos"
)

// Pure aggregation over order collections. These never mutate orders and
// apply no implicit status filtering; callers pre-filter if they want to
// exclude cancelled orders.

// RevenueTotal sums order totals over the given collection.
func RevenueTotal(orders []repos.OrderSummary) domain.Money {
	var sum domain.Money
	for _, o := range orders {
		sum += o.Total
	}
	return sum
}

// CountByStatus maps every order status to its count; statuses with no
// orders are present with a zero count.
func CountByStatus(orders []repos.OrderSummary) map[domain.OrderStatus]int {
	out := make(map[domain.OrderStatus]int, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		out[s] = 0
	}
	for _, o := range orders {
		out[o.Status]++
	}
	return out
}

// AverageOrderValue is revenue divided by order count. An empty collection
// yields 0 by convention: this is a reporting convenience, not a financial
// computation.
func AverageOrderValue(orders []repos.OrderSummary) domain.Money {
	if len(orders) == 0 {
		return 0
	}
	return RevenueTotal(orders) / domain.Money(len(orders))
}

// FilterByStatus keeps orders in the given status, order preserved;
// "all" (or empty) is the identity filter.
func FilterByStatus(status string, orders []repos.OrderSummary) []repos.OrderSummary {
	if status == "" || status == "all" {
		return orders
	}
	out := make([]repos.OrderSummary, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

type ReportService struct {
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
	Users  *repos.UserRepo
}

func NewReportService(orders *repos.OrderRepo, prods *repos.ProductRepo, users *repos.UserRepo) *ReportService {
	return &ReportService{Orders: orders, Prods: prods, Users: users}
}

// OrdersFor lists a customer's orders, newest first.
func (s *ReportService) OrdersFor(userID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByUser(userID)
}

type DashboardStats struct {
	Revenue       domain.Money
	OrderCount    int
	ProductCount  int
	CustomerCount int
	ByStatus      map[domain.OrderStatus]int
	Recent        []repos.OrderSummary
	TopProducts   []domain.Product
}

// Dashboard assembles the admin overview numbers.
func (s *ReportService) Dashboard() (DashboardStats, error) {
	orders, err := s.Orders.ListAll()
	if err != nil {
		return DashboardStats{}, err
	}
	customers, err := s.Users.ListCustomers()
	if err != nil {
		return DashboardStats{}, err
	}
	productCount, err := s.Prods.CountActive()
	if err != nil {
		return DashboardStats{}, err
	}
	featured, err := s.Prods.ListFeatured(4)
	if err != nil {
		return DashboardStats{}, err
	}
	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return DashboardStats{
		Revenue:       RevenueTotal(orders),
		OrderCount:    len(orders),
		ProductCount:  productCount,
		CustomerCount: len(customers),
		ByStatus:      CountByStatus(orders),
		Recent:        recent,
		TopProducts:   featured,
	}, nil
}

type CustomerSummary struct {
	User       domain.User
	OrderCount int
	Lifetime   domain.Money
	Average    domain.Money
}

// Customers returns each non-admin user with order count, lifetime value
// and average order value.
func (s *ReportService) Customers() ([]CustomerSummary, error) {
	users, err := s.Users.ListCustomers()
	if err != nil {
		return nil, err
	}
	out := make([]CustomerSummary, 0, len(users))
	for _, u := range users {
		orders, err := s.Orders.ListByUser(u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CustomerSummary{
			User:       u,
			OrderCount: len(orders),
			Lifetime:   RevenueTotal(orders),
			Average:    AverageOrderValue(orders),
		})
	}
	return out, nil
}
