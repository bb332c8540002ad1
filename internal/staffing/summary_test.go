package staffing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaffSummary(t *testing.T) {
	assert.Equal(t, "FOH: 1-2, Kitchen: 1-1, KP: 0-1", StaffSummary(1, 2, 1, 1, 0, 1))
	assert.Equal(t, "FOH: 3-2, Kitchen: 0-0, KP: 1.5-2", StaffSummary(3, 2, 0, 0, 1.5, 2))
	assert.Equal(t, "FOH: 0-1, Kitchen: 0-1, KP: 0-1", StaffSummary(math.Copysign(0, -1), 1, 0, 1, 0, 1))
}

func TestRevenueBand_Summary(t *testing.T) {
	bands := DefaultRevenueBands()
	assert.Equal(t, "FOH: 1-2, Kitchen: 1-1, KP: 0-1", bands[0].Summary())
	assert.Equal(t, "FOH: 6-8, Kitchen: 4-5, KP: 2-2", bands[4].Summary())
}
