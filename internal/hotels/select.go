package hotels

import "sort"

// SelectTop keeps the n cheapest offers, price ascending. The sort is stable
// so equal prices keep their input order.
func SelectTop(offers []Offer, n int) []Offer {
	out := make([]Offer, len(offers))
	copy(out, offers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice < out[j].TotalPrice
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
