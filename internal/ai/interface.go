package ai

import (
	"context"
	"errors"
)

// ErrMalformedResponse signals that the model answered but the reply did not
// parse as the requested structure. The raw text is still returned so the
// caller can degrade to a narrative-only itinerary.
var ErrMalformedResponse = errors.New("ai response failed structural parsing")

// LLMProvider defines the contract for itinerary synthesis.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// GenerateItinerary asks the model for a structured itinerary. On
	// ErrMalformedResponse the returned raw string holds the full model
	// output; on other errors it is empty.
	GenerateItinerary(ctx context.Context, input PromptInput) (*Itinerary, string, error)
}
