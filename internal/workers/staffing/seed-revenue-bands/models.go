package seedrevenuebands

import (
	"venue-workers/internal/common/validation"
	"venue-workers/internal/staffing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Input seeds a venue's band table. Omitting bands seeds the defaults.
type Input struct {
	VenueID string                 `json:"venueId"`
	Bands   []staffing.RevenueBand `json:"bands,omitempty"`
}

func (in Input) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.VenueID, ozzo.Required, validation.NotBlank, ozzo.Length(1, 64)),
		ozzo.Field(&in.Bands, ozzo.Length(0, 50), ozzo.Skip),
	)
}

type Output struct {
	VenueID          string   `json:"venueId"`
	BandCount        int      `json:"bandCount"`
	BandNames        []string `json:"bandNames"`
	CoveredRange     string   `json:"coveredRange"`
	UsedDefaultBands bool     `json:"usedDefaultBands"`
}
