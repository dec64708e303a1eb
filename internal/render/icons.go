package render

import "strings"

// Icon names a KPI glyph.
type Icon string

const (
	IconCurrency Icon = "currency"
	IconTrend    Icon = "trend"
	IconPeople   Icon = "people"
	IconTarget   Icon = "target"
	IconGlobe    Icon = "globe"
	IconGeneric  Icon = "generic"

	// IconBuilding is the logo placeholder, never picked for a KPI.
	IconBuilding Icon = "building"
)

type iconRule struct {
	keywords []string
	icon     Icon
}

// Order matters: the first rule with a matching keyword wins.
var iconRules = []iconRule{
	{[]string{"revenue", "arr"}, IconCurrency},
	{[]string{"growth", "rate"}, IconTrend},
	{[]string{"customer", "user"}, IconPeople},
	{[]string{"market"}, IconTarget},
	{[]string{"valuation"}, IconGlobe},
}

// KPIIcon picks the icon for a KPI label by case-insensitive keyword match.
func KPIIcon(label string) Icon {
	l := strings.ToLower(label)
	for _, r := range iconRules {
		for _, k := range r.keywords {
			if strings.Contains(l, k) {
				return r.icon
			}
		}
	}
	return IconGeneric
}

// iconPaths are 24x24 stroke outlines used by the HTML templates.
var iconPaths = map[Icon]string{
	IconCurrency: `<line x1="12" y1="1" x2="12" y2="23"/><path d="M17 5H9.5a3.5 3.5 0 0 0 0 7h5a3.5 3.5 0 0 1 0 7H6"/>`,
	IconTrend:    `<polyline points="23 6 13.5 15.5 8.5 10.5 1 18"/><polyline points="17 6 23 6 23 12"/>`,
	IconPeople:   `<path d="M17 21v-2a4 4 0 0 0-4-4H5a4 4 0 0 0-4 4v2"/><circle cx="9" cy="7" r="4"/><path d="M23 21v-2a4 4 0 0 0-3-3.87"/><path d="M16 3.13a4 4 0 0 1 0 7.75"/>`,
	IconTarget:   `<circle cx="12" cy="12" r="10"/><circle cx="12" cy="12" r="6"/><circle cx="12" cy="12" r="2"/>`,
	IconGlobe:    `<circle cx="12" cy="12" r="10"/><line x1="2" y1="12" x2="22" y2="12"/><path d="M12 2a15.3 15.3 0 0 1 4 10 15.3 15.3 0 0 1-4 10 15.3 15.3 0 0 1-4-10 15.3 15.3 0 0 1 4-10z"/>`,
	IconGeneric:  `<rect x="3" y="3" width="18" height="18" rx="2"/><path d="M3 9h18M9 21V9"/>`,
	IconBuilding: `<path d="M3 21h18"/><path d="M5 21V7l8-4v18"/><path d="M19 21V11l-6-4"/><path d="M9 9v.01M9 12v.01M9 15v.01M9 18v.01"/>`,
}
