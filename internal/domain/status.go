package domain

import "strings"

// Order lifecycle: draft -> (adjustments) -> finalized. Finalization is a
// one-way stamp; re-finalizing an order just re-stamps it.
const (
	OrderStatusDraft     = "draft"
	OrderStatusFinalized = "finalized"

	OrderTypePreseason = "preseason"
)

const (
	SeasonStatusPlanning = "planning"
	SeasonStatusOrdering = "ordering"
	SeasonStatusClosed   = "closed"
)

var orderStatuses = map[string]bool{
	OrderStatusDraft:     true,
	OrderStatusFinalized: true,
}

var seasonStatuses = map[string]bool{
	SeasonStatusPlanning: true,
	SeasonStatusOrdering: true,
	SeasonStatusClosed:   true,
}

// ValidOrderStatus reports whether label is a known order status (case-insensitive).
func ValidOrderStatus(label string) bool {
	return orderStatuses[strings.ToLower(label)]
}

// ValidSeasonStatus reports whether label is a known season status (case-insensitive).
func ValidSeasonStatus(label string) bool {
	return seasonStatuses[strings.ToLower(label)]
}
