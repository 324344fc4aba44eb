package planner

import "fmt"

// HotelSummary is the presentation-ready hotel line: live offers when the
// search produced any, AI suggestions otherwise.
type HotelSummary struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// POISummary is the presentation-ready sight line, merged the same way.
type POISummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

func (r *Result) HotelSummaries() []HotelSummary {
	if len(r.Offers) > 0 {
		out := make([]HotelSummary, 0, len(r.Offers))
		for _, o := range r.Offers {
			out = append(out, HotelSummary{
				Name:   o.Name,
				Price:  fmt.Sprintf("%.2f %s total", o.TotalPrice, o.Currency),
				Source: "live",
			})
		}
		return out
	}
	out := make([]HotelSummary, 0, len(r.AIHotels))
	for _, h := range r.AIHotels {
		out = append(out, HotelSummary{
			Name:        h.Name,
			Price:       h.ApproxPrice,
			Description: h.Description,
			Source:      "suggested",
		})
	}
	return out
}

func (r *Result) POISummaries() []POISummary {
	if len(r.POIs) > 0 {
		out := make([]POISummary, 0, len(r.POIs))
		for _, p := range r.POIs {
			out = append(out, POISummary{Name: p.Name, Description: p.Address, Source: "live"})
		}
		return out
	}
	out := make([]POISummary, 0, len(r.AIPOIs))
	for _, p := range r.AIPOIs {
		out = append(out, POISummary{Name: p.Name, Description: p.Description, Source: "suggested"})
	}
	return out
}

// Warnings renders the failure list for API consumers.
func (r *Result) Warnings() []string {
	if len(r.Failures) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.String())
	}
	return out
}
