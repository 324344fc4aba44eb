// README: Trip request aggregate built incrementally by one conversation.
package trip

import (
	"math"
	"time"
)

// HotelAllocation is the fraction of the total budget reserved for lodging.
const HotelAllocation = 0.40

// Coordinates is a resolved longitude/latitude pair.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Request accumulates the trip parameters supplied during a conversation.
// Pointer fields are nil until the corresponding step has been answered.
// Coordinates stay nil when the location could not be geocoded; that is a
// valid state, not an error.
type Request struct {
	Location  string
	Coords    *Coordinates
	StartDate *time.Time
	EndDate   *time.Time
	Occasion  string
	Budget    *float64
	Currency  string
}

// Complete reports whether every required field has been collected.
func (r *Request) Complete() bool {
	return r.Location != "" && r.StartDate != nil && r.EndDate != nil &&
		r.Occasion != "" && r.Budget != nil
}

// Nights returns the trip duration in nights, clamped to a minimum of 1 so
// downstream per-night math never divides by zero.
func (r *Request) Nights() int {
	if r.StartDate == nil || r.EndDate == nil {
		return 1
	}
	days := int(math.Round(r.EndDate.Sub(*r.StartDate).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// HotelBudgetPerNight is the lodging ceiling per night: 40% of the total
// budget spread over the trip's nights.
func (r *Request) HotelBudgetPerNight() float64 {
	if r.Budget == nil {
		return 0
	}
	return *r.Budget * HotelAllocation / float64(r.Nights())
}
