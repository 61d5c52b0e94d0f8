package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
)

type Resolver struct{}

func New() domain.Resolver {
	return Resolver{}
}

func (Resolver) Resolve(loc domain.SiteLocation) (domain.Resolution, error) {
	jurisdiction := domain.NormalizeJurisdiction(loc.Jurisdiction)
	if jurisdiction == "" {
		return domain.Resolution{}, domain.ErrMissingJurisdiction
	}
	postcode := strings.TrimSpace(loc.Postcode)

	out := domain.Resolution{
		Jurisdiction: string(jurisdiction),
		Postcode:     postcode,
	}

	ranges, ok := zoneTable[jurisdiction]
	if !ok {
		return approximate(out, fmt.Sprintf("unknown jurisdiction %q", jurisdiction)), nil
	}

	code, ok := parsePostcode(postcode)
	if !ok {
		return approximate(out, fmt.Sprintf("postcode %q is not a four digit postcode", postcode)), nil
	}

	for _, r := range ranges {
		if code >= r.from && code <= r.to {
			out.Zone = r.zone
			out.Rating = r.zone.Rating()
			return out, nil
		}
	}

	return approximate(out, fmt.Sprintf("postcode %s is outside the %s ranges", postcode, jurisdiction)), nil
}

func (Resolver) Zones() []domain.ZoneInfo {
	zones := make([]domain.ZoneInfo, 0, len(domain.Ratings))
	for zone, rating := range domain.Ratings {
		zones = append(zones, domain.ZoneInfo{Zone: zone, Rating: rating})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Zone < zones[j].Zone })
	return zones
}

func approximate(out domain.Resolution, reason string) domain.Resolution {
	out.Zone = domain.DefaultZone
	out.Rating = domain.DefaultZone.Rating()
	out.Approximate = true
	out.Reason = reason
	return out
}

func parsePostcode(v string) (int, bool) {
	if len(v) != 4 {
		return 0, false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	code, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return code, true
}
