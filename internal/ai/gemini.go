package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Force JSON responses for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Creative but structured output.
	model.SetTemperature(0.6)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// GenerateItinerary asks the model for the structured itinerary shape.
func (p *GeminiProvider) GenerateItinerary(ctx context.Context, input PromptInput) (*Itinerary, string, error) {
	prompt := buildItineraryPrompt(input)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return ParseItinerary(responseText.String())
}

// buildItineraryPrompt constructs the synthesis instructions. The model acts
// as a travel agent and must answer with the exact three-field JSON shape.
func buildItineraryPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Act as an expert travel agent. Plan a trip to %s from %s to %s.
Vibe: %s. Budget: $%.2f USD.
Reserve roughly 40%% of the budget for lodging.`,
		in.Location, in.StartDate, in.EndDate, in.Occasion, in.Budget)

	if len(in.KnownHotels) > 0 {
		fmt.Fprintf(&b, "\nPrefer these hotels found within budget: %s.", strings.Join(in.KnownHotels, "; "))
	}
	if len(in.KnownPOIs) > 0 {
		fmt.Fprintf(&b, "\nConsider these nearby points of interest: %s.", strings.Join(in.KnownPOIs, "; "))
	}

	b.WriteString(`
Return the response STRICTLY as a JSON object with:
{
  "hotels": [
    {
      "name": "Hotel name",
      "approx_price": "Approximate total price in USD",
      "description": "One sentence on why it fits the trip."
    }
  ],
  "points_of_interest": [
    {
      "name": "Name of the point of interest",
      "description": "A 1-2 sentence description and why it's relevant."
    }
  ],
  "narrative": "A professional, concise day-by-day itinerary as plain text. No markdown formatting."
}
List at most 3 hotels and at most 5 points of interest.`)
	return b.String()
}

// ParseItinerary decodes the model output. Markdown code fences are stripped
// first; anything that still fails to unmarshal (or lacks a narrative) comes
// back as raw text with ErrMalformedResponse.
func ParseItinerary(raw string) (*Itinerary, string, error) {
	clean := cleanJSONString(raw)

	var it Itinerary
	if err := json.Unmarshal([]byte(clean), &it); err != nil {
		return nil, raw, ErrMalformedResponse
	}
	if it.Narrative == "" {
		return nil, raw, ErrMalformedResponse
	}

	if len(it.Hotels) > 3 {
		it.Hotels = it.Hotels[:3]
	}
	if len(it.POIs) > 5 {
		it.POIs = it.POIs[:5]
	}
	return &it, raw, nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
