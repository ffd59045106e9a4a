package model

// RevenuePoint is the paid order total of one month.
type RevenuePoint struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}
