package recommendstaffing

import "venue-workers/internal/staffing"

type Input struct {
	VenueID string  `json:"venueId,omitempty"`
	Revenue float64 `json:"revenue"`
}

type Output struct {
	Band             staffing.RevenueBand `json:"band"`
	RevenueRange     string               `json:"revenueRange"`
	StaffSummary     string               `json:"staffSummary"`
	LabourBudget     float64              `json:"labourBudget"`
	UsedDefaultBands bool                 `json:"usedDefaultBands"`
}
