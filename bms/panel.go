package bms

import (
	"slices"
	"strings"
)

// Bucket used for points whose panel cannot be derived from the name
const UnknownPanel string = "N/A Panel"

// Tokens marking the position of the panel inside a point designation,
// checked in this order
const (
	HardwareMarker      string = "Hardware"
	OfflineTrendsMarker string = "OfflineTrends"
	FieldNetworksMarker string = "FieldNetworks"
	ApogeeZonesMarker   string = "APOGEEZones"
	ServersMarker       string = "Servers"
)

// Returns the position of the marker in the token list.
// A marker in first position is reported as found.
func findMarker(tokens []string, marker string) (int, bool) {
	i := slices.Index(tokens, marker)
	return i, i >= 0
}

// Derives the panel a point belongs to from its dotted designation, e.g.
// "Site1.Hardware.PanelA.Point1" -> "PanelA".
//
// The first marker present in priority order decides the outcome, independently
// of where the other markers appear in the name. Never fails, names that cannot
// be resolved end up in the UnknownPanel bucket.
func PanelFromPointName(pointName string) string {
	tokens := strings.Split(pointName, ".")
	last := len(tokens) - 1

	if i, ok := findMarker(tokens, HardwareMarker); ok {
		if len(tokens[i:]) > 2 {
			return tokens[i+1]
		}
		return tokens[last]
	}

	if i, ok := findMarker(tokens, OfflineTrendsMarker); ok {
		if i+2 > last {
			return UnknownPanel
		}
		return tokens[i+2]
	}

	if i, ok := findMarker(tokens, FieldNetworksMarker); ok {
		switch remaining := len(tokens[i:]); {
		case remaining > 3:
			return tokens[last-2]
		case remaining > 2:
			return tokens[last-1]
		}
		return UnknownPanel
	}

	if _, ok := findMarker(tokens, ApogeeZonesMarker); ok {
		return tokens[last]
	}

	if _, ok := findMarker(tokens, ServersMarker); ok {
		if len(tokens) < 2 {
			return UnknownPanel
		}
		return tokens[last-1] + "-" + tokens[last]
	}

	return UnknownPanel
}
