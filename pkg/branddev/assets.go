package branddev

import (
	"fmt"
	"strings"
)

// Assets is a brand normalized for display.
type Assets struct {
	LogoURL          string
	PrimaryColor     string
	SecondaryColors  []string
	BrandDescription string
	IndustryTags     []string
	CompanyName      string
	Slogan           string
	// Confidence is a 0-100 completeness score, see Confidence.
	Confidence int
}

// Normalize picks the display assets out of a brand. An SVG logo is
// preferred over raster formats; the first color is primary.
func Normalize(b *Brand) Assets {
	if b == nil {
		return Assets{}
	}

	var hexes []string
	for _, c := range b.Colors {
		if c.Hex != "" {
			hexes = append(hexes, c.Hex)
		}
	}

	a := Assets{
		BrandDescription: b.Description,
		CompanyName:      b.Title,
		Slogan:           b.Slogan,
		Confidence:       Confidence(b),
	}
	if len(hexes) > 0 {
		a.PrimaryColor = hexes[0]
		a.SecondaryColors = hexes[1:]
	}

	for _, l := range b.Logos {
		if strings.HasSuffix(strings.ToLower(l.URL), ".svg") {
			a.LogoURL = l.URL
			break
		}
	}
	if a.LogoURL == "" && len(b.Logos) > 0 {
		a.LogoURL = b.Logos[0].URL
	}

	for _, i := range b.Industries.EIC {
		if i.Industry == "" {
			continue
		}
		a.IndustryTags = append(a.IndustryTags, fmt.Sprintf("%s - %s", i.Industry, i.Subindustry))
	}
	return a
}

// Confidence scores how complete a brand record is: logo 40, colors 30,
// description 20, industry tags 10.
func Confidence(b *Brand) int {
	if b == nil {
		return 0
	}
	score := 0
	if len(b.Logos) > 0 {
		score += 40
	}
	if len(b.Colors) > 0 {
		score += 30
	}
	if b.Description != "" {
		score += 20
	}
	if len(b.Industries.EIC) > 0 {
		score += 10
	}
	return score
}
