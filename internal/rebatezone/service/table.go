package service

import "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"

type postcodeRange struct {
	from, to int
	zone     domain.Zone
}

// Ranges are matched in order, so narrow regional bands sit before the broad
// metropolitan ones they overlap.
var zoneTable = map[domain.Jurisdiction][]postcodeRange{
	domain.NT: {
		{800, 849, domain.Zone2},
		{850, 899, domain.Zone1},
	},
	domain.NSW: {
		{2830, 2880, domain.Zone2},
		{2000, 2599, domain.Zone3},
		{2619, 2899, domain.Zone3},
		{2921, 2999, domain.Zone3},
	},
	domain.ACT: {
		{2600, 2618, domain.Zone3},
		{2900, 2920, domain.Zone3},
	},
	domain.VIC: {
		{3490, 3509, domain.Zone3},
		{3000, 3999, domain.Zone4},
		{8000, 8999, domain.Zone4},
	},
	domain.QLD: {
		{4825, 4830, domain.Zone1},
		{4470, 4490, domain.Zone2},
		{4000, 4999, domain.Zone3},
		{9000, 9999, domain.Zone3},
	},
	domain.SA: {
		{5710, 5734, domain.Zone1},
		{5700, 5799, domain.Zone2},
		{5000, 5699, domain.Zone3},
		{5800, 5999, domain.Zone3},
	},
	domain.WA: {
		{6700, 6799, domain.Zone1},
		{6430, 6440, domain.Zone2},
		{6000, 6699, domain.Zone3},
		{6800, 6999, domain.Zone3},
	},
	domain.TAS: {
		{7000, 7999, domain.Zone4},
	},
}
