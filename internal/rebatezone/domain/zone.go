// Package domain contains the rebate zone model used for certificate valuation.
package domain

import (
	"strings"

	"github.com/railzwaylabs/solarquote/pkg/apperr"
)

type Zone int

const (
	Zone1 Zone = 1
	Zone2 Zone = 2
	Zone3 Zone = 3
	Zone4 Zone = 4
)

// DefaultZone covers the majority of installed addresses and is used whenever a
// site cannot be placed in the table.
const DefaultZone = Zone3

// Ratings are daily insolation figures in kWh per installed kW per day.
var Ratings = map[Zone]float64{
	Zone1: 5.2,
	Zone2: 4.9,
	Zone3: 4.5,
	Zone4: 3.9,
}

func (z Zone) Valid() bool {
	return z >= Zone1 && z <= Zone4
}

// Rating returns the zone insolation rating. Invalid zones report the default zone's rating.
func (z Zone) Rating() float64 {
	if !z.Valid() {
		return Ratings[DefaultZone]
	}
	return Ratings[z]
}

type Jurisdiction string

const (
	NSW Jurisdiction = "NSW"
	VIC Jurisdiction = "VIC"
	QLD Jurisdiction = "QLD"
	SA  Jurisdiction = "SA"
	WA  Jurisdiction = "WA"
	TAS Jurisdiction = "TAS"
	NT  Jurisdiction = "NT"
	ACT Jurisdiction = "ACT"
)

// NormalizeJurisdiction upper-cases and trims a jurisdiction code.
func NormalizeJurisdiction(v string) Jurisdiction {
	return Jurisdiction(strings.ToUpper(strings.TrimSpace(v)))
}

type SiteLocation struct {
	Jurisdiction string `json:"jurisdiction" binding:"required"`
	Postcode     string `json:"postcode"`
}

type Resolution struct {
	Zone         Zone    `json:"zone"`
	Rating       float64 `json:"rating"`
	Approximate  bool    `json:"approximate"`
	Reason       string  `json:"reason,omitempty"`
	Jurisdiction string  `json:"jurisdiction"`
	Postcode     string  `json:"postcode"`
}

type ZoneInfo struct {
	Zone   Zone    `json:"zone"`
	Rating float64 `json:"rating"`
}

type Resolver interface {
	Resolve(loc SiteLocation) (Resolution, error)
	Zones() []ZoneInfo
}

var ErrMissingJurisdiction = apperr.Validation("jurisdiction", "is required")
