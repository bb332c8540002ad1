// Package staffing holds the revenue-band staffing table and its display helpers.
package staffing

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrRevenueOutOfRange  = errors.New("REVENUE_OUT_OF_RANGE")
	ErrInvalidBand        = errors.New("INVALID_BAND")
	ErrBandsNotContiguous = errors.New("BANDS_NOT_CONTIGUOUS")
	ErrNoBands            = errors.New("NO_BANDS")
)

// RevenueBand maps an inclusive revenue range to recommended staffing levels.
type RevenueBand struct {
	Name                 string  `json:"name"`
	RevenueMin           float64 `json:"revenueMin"`
	RevenueMax           float64 `json:"revenueMax"`
	FOHMinStaff          int     `json:"fohMinStaff"`
	FOHMaxStaff          int     `json:"fohMaxStaff"`
	KitchenMinStaff      int     `json:"kitchenMinStaff"`
	KitchenMaxStaff      int     `json:"kitchenMaxStaff"`
	KPMinStaff           int     `json:"kpMinStaff"`
	KPMaxStaff           int     `json:"kpMaxStaff"`
	TargetCostPercentage float64 `json:"targetCostPercentage"`
}

// DefaultRevenueBands returns a fresh copy of the five default bands, ordered
// by RevenueMin and covering 0-10000.
func DefaultRevenueBands() []RevenueBand {
	return []RevenueBand{
		{
			Name:       "Quiet",
			RevenueMin: 0, RevenueMax: 1999,
			FOHMinStaff: 1, FOHMaxStaff: 2,
			KitchenMinStaff: 1, KitchenMaxStaff: 1,
			KPMinStaff: 0, KPMaxStaff: 1,
			TargetCostPercentage: 35,
		},
		{
			Name:       "Steady",
			RevenueMin: 2000, RevenueMax: 3999,
			FOHMinStaff: 2, FOHMaxStaff: 3,
			KitchenMinStaff: 1, KitchenMaxStaff: 2,
			KPMinStaff: 1, KPMaxStaff: 1,
			TargetCostPercentage: 32,
		},
		{
			Name:       "Busy",
			RevenueMin: 4000, RevenueMax: 5999,
			FOHMinStaff: 3, FOHMaxStaff: 4,
			KitchenMinStaff: 2, KitchenMaxStaff: 3,
			KPMinStaff: 1, KPMaxStaff: 1,
			TargetCostPercentage: 30,
		},
		{
			Name:       "Very Busy",
			RevenueMin: 6000, RevenueMax: 7999,
			FOHMinStaff: 4, FOHMaxStaff: 6,
			KitchenMinStaff: 3, KitchenMaxStaff: 4,
			KPMinStaff: 1, KPMaxStaff: 2,
			TargetCostPercentage: 28,
		},
		{
			Name:       "Peak",
			RevenueMin: 8000, RevenueMax: 10000,
			FOHMinStaff: 6, FOHMaxStaff: 8,
			KitchenMinStaff: 4, KitchenMaxStaff: 5,
			KPMinStaff: 2, KPMaxStaff: 2,
			TargetCostPercentage: 26,
		},
	}
}

// FormatRevenueBand renders a range as "£min - £max" using the shortest
// numeric form of each bound.
func FormatRevenueBand(min, max float64) string {
	return "£" + formatNumber(min) + " - £" + formatNumber(max)
}

// RangeLabel is FormatRevenueBand applied to the band's own bounds.
func (b RevenueBand) RangeLabel() string {
	return FormatRevenueBand(b.RevenueMin, b.RevenueMax)
}

// Contains reports whether revenue falls inside the band's inclusive range.
func (b RevenueBand) Contains(revenue float64) bool {
	return revenue >= b.RevenueMin && revenue <= b.RevenueMax
}

// Validate checks the band's own invariants.
func (b RevenueBand) Validate() error {
	switch {
	case b.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidBand)
	case b.RevenueMin < 0:
		return fmt.Errorf("%w: %s: revenueMin must be non-negative", ErrInvalidBand, b.Name)
	case b.RevenueMin >= b.RevenueMax:
		return fmt.Errorf("%w: %s: revenueMin must be below revenueMax", ErrInvalidBand, b.Name)
	case b.FOHMinStaff < 0 || b.FOHMinStaff > b.FOHMaxStaff:
		return fmt.Errorf("%w: %s: foh staff range %d-%d", ErrInvalidBand, b.Name, b.FOHMinStaff, b.FOHMaxStaff)
	case b.KitchenMinStaff < 0 || b.KitchenMinStaff > b.KitchenMaxStaff:
		return fmt.Errorf("%w: %s: kitchen staff range %d-%d", ErrInvalidBand, b.Name, b.KitchenMinStaff, b.KitchenMaxStaff)
	case b.KPMinStaff < 0 || b.KPMinStaff > b.KPMaxStaff:
		return fmt.Errorf("%w: %s: kp staff range %d-%d", ErrInvalidBand, b.Name, b.KPMinStaff, b.KPMaxStaff)
	case b.TargetCostPercentage < 0 || b.TargetCostPercentage > 100:
		return fmt.Errorf("%w: %s: target cost percentage %v outside 0-100", ErrInvalidBand, b.Name, b.TargetCostPercentage)
	}
	return nil
}

// ValidateBands checks every band and that the table is ordered ascending with
// each band starting one above the previous band's maximum.
func ValidateBands(bands []RevenueBand) error {
	if len(bands) == 0 {
		return ErrNoBands
	}
	for i, b := range bands {
		if err := b.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := bands[i-1]
		if prev.RevenueMax+1 != b.RevenueMin {
			return fmt.Errorf("%w: %s ends at %s but %s starts at %s", ErrBandsNotContiguous,
				prev.Name, formatNumber(prev.RevenueMax), b.Name, formatNumber(b.RevenueMin))
		}
	}
	return nil
}

// BandForRevenue returns the band containing revenue. Revenue between two
// bands (e.g. 1999.5) is assigned to the lower band and revenue above the
// final band is clamped to it.
func BandForRevenue(bands []RevenueBand, revenue float64) (RevenueBand, error) {
	if len(bands) == 0 {
		return RevenueBand{}, ErrNoBands
	}
	if revenue < bands[0].RevenueMin {
		return RevenueBand{}, fmt.Errorf("%w: %s below %s", ErrRevenueOutOfRange,
			formatNumber(revenue), formatNumber(bands[0].RevenueMin))
	}
	for i, b := range bands {
		if b.Contains(revenue) {
			return b, nil
		}
		if i+1 < len(bands) && revenue > b.RevenueMax && revenue < bands[i+1].RevenueMin {
			return b, nil
		}
	}
	return bands[len(bands)-1], nil
}

func formatNumber(v float64) string {
	if v == 0 {
		// negative zero prints as "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
