package timetable

import "strings"

// categoryColors is the §6 colour-override table, applied only when both
// the route's own colors are at the GTFS defaults. Ported verbatim from
// Utilities.py's get_colors. Used by the Response Assembler
// (internal/matcher) only; Connections shares just the blank fallback
// colours below.
var categoryColors = map[int][2]string{
	0:  {"E010C2", "FFFFFF"}, // Tram, Streetcar, Light rail
	1:  {"1279F3", "FFFFFF"}, // Metro, Subway
	2:  {"000000", "FFFFFF"}, // Rail
	3:  {"9B9B9B", "FFFFFF"}, // Bus
	4:  {"A83DC2", "FFFFFF"}, // Ferry
	5:  {"ED77FF", "000000"}, // Cable tram
	6:  {"F5A623", "000000"}, // Aerial lift, gondola
	7:  {"F15204", "000000"}, // Funicular
	11: {"32F3C8", "000000"}, // Trolleybus
	12: {"EA15BE", "000000"}, // Monorail
}

const (
	// gtfsDefaultColor/gtfsDefaultTextColor are the literal white/black
	// values a GTFS feed uses to mean "no color specified" — the override
	// trigger condition, ported from Utilities.py's get_colors.
	gtfsDefaultColor     = "FFFFFF"
	gtfsDefaultTextColor = "000000"
	// blankFallbackColor/blankFallbackTextColor are this response's own
	// display fallback when a route has no color data at all (spec.md
	// §4.8's "defaults (777777 / FFFFFF)"), distinct from the override
	// trigger above.
	blankFallbackColor     = "777777"
	blankFallbackTextColor = "FFFFFF"
)

// ResolveColors implements §6's colour-override rule: custom colors pass
// through, upper-cased; only feeds sitting on the GTFS default white/black
// get a category-appropriate override. A route with no color data at all
// falls back to this package's own display default first.
func ResolveColors(color, textColor string, routeType int) (string, string) {
	if color == "" {
		color = blankFallbackColor
	}
	if textColor == "" {
		textColor = blankFallbackTextColor
	}
	color = strings.ToUpper(color)
	textColor = strings.ToUpper(textColor)
	if color != gtfsDefaultColor || textColor != gtfsDefaultTextColor {
		return color, textColor
	}
	if override, ok := categoryColors[routeType]; ok {
		return override[0], override[1]
	}
	return color, textColor
}
