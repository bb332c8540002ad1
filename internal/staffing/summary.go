package staffing

import "fmt"

// StaffSummary renders staffing bounds as "FOH: a-b, Kitchen: c-d, KP: e-f".
// Ordering of each min/max pair is not checked.
func StaffSummary(fohMin, fohMax, kitchenMin, kitchenMax, kpMin, kpMax float64) string {
	return fmt.Sprintf("FOH: %s-%s, Kitchen: %s-%s, KP: %s-%s",
		formatNumber(fohMin), formatNumber(fohMax),
		formatNumber(kitchenMin), formatNumber(kitchenMax),
		formatNumber(kpMin), formatNumber(kpMax),
	)
}

// Summary is StaffSummary for the band's own thresholds.
func (b RevenueBand) Summary() string {
	return StaffSummary(
		float64(b.FOHMinStaff), float64(b.FOHMaxStaff),
		float64(b.KitchenMinStaff), float64(b.KitchenMaxStaff),
		float64(b.KPMinStaff), float64(b.KPMaxStaff),
	)
}
