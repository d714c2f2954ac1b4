package census

import "strings"

// PlaceSeparator separates the levels of a hierarchical place name.
const PlaceSeparator = ", "

// ParsePlace splits a hierarchical place name into its parts, most specific
// first. Parts are trimmed and empty parts are dropped, so an empty string
// yields no parts at all.
//
//	ParsePlace("Miami, Florida, United States") // ["Miami" "Florida" "United States"]
func ParsePlace(place string) []string {
	if place == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(place, PlaceSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// Subdivision picks the part of a place hierarchy that a census column
// reports, relative to the census country.
//
// A domestic place reports the subdivision just above the country (a state
// or province). A foreign place reports only its country. A bare country
// name is reported when foreign and suppressed when domestic.
func Subdivision(parts []string, country string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		if parts[0] == country {
			return ""
		}
		return parts[0]
	}

	last := parts[len(parts)-1]
	if last == country {
		return parts[len(parts)-2]
	}
	return last
}

// PlaceCountry returns the least specific part of a place name.
func PlaceCountry(place string) string {
	parts := ParsePlace(place)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
