package trip

// Suggested occasions offered to the user. The set is advisory: free text is
// accepted and stored verbatim; unknown values just fall back to the default
// POI category.
const (
	OccasionAdventure  = "Adventure"
	OccasionRelaxation = "Relaxation"
	OccasionBusiness   = "Business"
	OccasionFamilyTrip = "Family Trip"
	OccasionCultural   = "Cultural"
)

// Occasions returns the suggestion keyboard values in display order.
func Occasions() []string {
	return []string{
		OccasionAdventure,
		OccasionRelaxation,
		OccasionBusiness,
		OccasionFamilyTrip,
		OccasionCultural,
	}
}

// DefaultPOICategory is used when the occasion has no mapping.
const DefaultPOICategory = "tourist attractions"

// poiCategories maps an occasion to the keyword query sent to the places
// search. Initialized once, read-only afterwards.
var poiCategories = map[string]string{
	OccasionAdventure:  "hiking outdoor adventure attractions",
	OccasionRelaxation: "spa park beach relaxation",
	OccasionBusiness:   "museum landmark business district",
	OccasionFamilyTrip: "family attractions amusement park zoo",
	OccasionCultural:   "museum temple historical site gallery",
}

// POICategory resolves the places-search keywords for an occasion.
func POICategory(occasion string) string {
	if q, ok := poiCategories[occasion]; ok {
		return q
	}
	return DefaultPOICategory
}
