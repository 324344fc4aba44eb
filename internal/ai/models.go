package ai

// PromptInput carries the trip parameters embedded into the synthesis prompt.
type PromptInput struct {
	Location  string
	StartDate string
	EndDate   string
	Occasion  string
	Budget    float64

	// KnownPOIs and KnownHotels are optional context from the live searches,
	// passed so the model grounds its suggestions in real places.
	KnownPOIs   []string
	KnownHotels []string
}

// Itinerary is the machine-parseable shape the model is asked to produce.
type Itinerary struct {
	// Hotels holds at most 3 lodging suggestions.
	Hotels []HotelSuggestion `json:"hotels"`

	// POIs holds at most 5 sightseeing suggestions.
	POIs []POISuggestion `json:"points_of_interest"`

	// Narrative is the day-by-day text block.
	Narrative string `json:"narrative"`
}

type HotelSuggestion struct {
	Name        string `json:"name"`
	ApproxPrice string `json:"approx_price"`
	Description string `json:"description"`
}

type POISuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
