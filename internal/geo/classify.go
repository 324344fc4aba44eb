package geo

import "strings"

// Classification is the best-effort verdict on whether a reverse-geocoded
// point is a plannable destination, plus the term used for image lookup.
type Classification struct {
	IsOcean    bool
	SearchTerm string
}

// Classify decides whether the resolved components describe open water or
// wilderness, and picks the image search term by priority. The string match
// on "Ocean"/"Sea" is a heuristic, not a guarantee.
func Classify(displayName string, addr Address) Classification {
	name := strings.ToLower(displayName)
	watery := strings.Contains(name, "ocean") || strings.Contains(name, "sea")
	noCityLevel := addr.City == "" && addr.Town == "" && addr.Village == ""

	if addr.Country == "" || (watery && noCityLevel) {
		return Classification{IsOcean: true}
	}

	// Priority: city > hamlet > state > country.
	for _, term := range []string{addr.City, addr.Hamlet, addr.State} {
		if term != "" {
			return Classification{SearchTerm: term}
		}
	}
	return Classification{SearchTerm: addr.Country}
}
