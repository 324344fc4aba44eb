// README: Session manager; validates each answer and drives the linear flow.
package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"expedition/internal/trip"
)

const (
	geocodeTimeout = 10 * time.Second
	occasionPrefix = "occ|"
)

// Geocoder resolves free-text locations during the conversation. A failed or
// empty resolution keeps the session on the location step (retry in place).
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*trip.Coordinates, error)
}

// Manager owns every active session. The session cache is safe for
// concurrent use; transitions are serialized per session by the session's
// own lock, so a slow step in one conversation never stalls another.
// Sessions expire from the cache after the configured TTL.
type Manager struct {
	sessions *gocache.Cache
	geocoder Geocoder
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(geocoder Geocoder, sessionTTL time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sessions: gocache.New(sessionTTL, sessionTTL),
		geocoder: geocoder,
		log:      log,
		now:      time.Now,
	}
}

// Start begins (or restarts) a conversation for the given session id and
// returns the welcome prompt with a fresh start-date picker.
func (m *Manager) Start(sessionID string) Reply {
	picker := NewPicker(nil, m.now())
	s := &Session{
		ID:        sessionID,
		State:     StateAwaitingStartDate,
		Trip:      &trip.Request{Currency: "USD"},
		Picker:    picker,
		StartedAt: m.now(),
	}
	m.sessions.SetDefault(sessionID, s)
	m.log.Info("conversation started", zap.String("session", sessionID))

	return Reply{
		Messages: []string{
			"Welcome to the Expedition trip planning assistant!\n" +
				"I'll capture the key details for your upcoming trip.\n\n" +
				"Please select your start date:",
			"Select " + picker.StepLabel(),
		},
		Keyboard: picker.Keyboard(),
	}
}

// Expire removes a session without delivering anything. Used by transports
// that implement their own timeout policy.
func (m *Manager) Expire(sessionID string) {
	m.sessions.Delete(sessionID)
}

// HandleEvent advances the session by at most one state. Events that do not
// match the session's current state are ignored and mutate nothing.
func (m *Manager) HandleEvent(ctx context.Context, ev Event) Reply {
	v, ok := m.sessions.Get(ev.SessionID)
	if !ok {
		return ignored()
	}
	s := v.(*Session)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have completed or been cancelled while this event
	// waited on the lock.
	if s.done {
		return ignored()
	}

	if ev.Cancel {
		s.State = StateCancelled
		s.done = true
		m.sessions.Delete(s.ID)
		m.log.Info("conversation cancelled", zap.String("session", s.ID))
		return Reply{
			Messages:  []string{"Bye! Hope to talk to you again soon."},
			Cancelled: true,
		}
	}

	switch s.State {
	case StateAwaitingStartDate, StateAwaitingEndDate:
		return m.handleDateStep(s, ev)
	case StateAwaitingLocation:
		return m.handleLocation(ctx, s, ev)
	case StateAwaitingOccasion:
		return m.handleOccasion(s, ev)
	case StateAwaitingBudget:
		return m.handleBudget(s, ev)
	default:
		return ignored()
	}
}

func (m *Manager) handleDateStep(s *Session, ev Event) Reply {
	if ev.Callback == "" {
		return textReply("Please use the calendar buttons to pick a date.")
	}

	sel, rerender, err := s.Picker.Process(ev.Callback)
	if err != nil {
		// Superseded picker or forged payload; stored fields stay intact.
		return ignored()
	}
	if rerender {
		return Reply{
			Messages: []string{"Select " + s.Picker.StepLabel()},
			Keyboard: s.Picker.Keyboard(),
		}
	}
	if sel == nil {
		return ignored()
	}

	if s.State == StateAwaitingStartDate {
		s.Trip.StartDate = sel
		// End-date picker is bounded below by the chosen start date.
		s.Picker = NewPicker(sel, *sel)
		s.State = nextState[s.State]
		return Reply{
			Messages: []string{
				fmt.Sprintf("Start date selected: %s\n\nPlease select the end date:", sel.Format("2006-01-02")),
				"Select " + s.Picker.StepLabel(),
			},
			Keyboard: s.Picker.Keyboard(),
		}
	}

	s.Trip.EndDate = sel
	s.Picker = nil
	s.State = nextState[s.State]
	return textReply(
		fmt.Sprintf("Dates locked in!\n\nStart date: %s\nEnd date: %s",
			s.Trip.StartDate.Format("2006-01-02"), sel.Format("2006-01-02")),
		"Specify your destination.\n\nProvide the desired city or region for your expedition "+
			`(e.g. "Paris, France", "Kyoto, Japan", or "Machu Picchu").`,
	)
}

func (m *Manager) handleLocation(ctx context.Context, s *Session, ev Event) Reply {
	if ev.Callback != "" {
		return ignored()
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return textReply("That looks empty. Please enter a destination for your trip.")
	}

	if m.geocoder != nil {
		gctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
		defer cancel()
		coords, err := m.geocoder.Geocode(gctx, text)
		if err != nil || coords == nil {
			if err != nil {
				m.log.Warn("geocode failed", zap.String("session", s.ID), zap.Error(err))
			}
			return textReply("The location you entered was not found.\nPlease enter a suitable location for your trip.")
		}
		s.Trip.Coords = coords
	}

	s.Trip.Location = text
	s.State = nextState[s.State]

	var row []Button
	for _, occ := range trip.Occasions() {
		row = append(row, Button{Label: occ, Data: occasionPrefix + occ})
	}
	return Reply{
		Messages: []string{fmt.Sprintf("Cool! We've got %s locked in for the destination.\n\nWhat's the main occasion or goal for this trip?", text)},
		Keyboard: [][]Button{row},
	}
}

func (m *Manager) handleOccasion(s *Session, ev Event) Reply {
	occasion := strings.TrimSpace(ev.Text)
	if ev.Callback != "" {
		if !strings.HasPrefix(ev.Callback, occasionPrefix) {
			return ignored()
		}
		occasion = strings.TrimPrefix(ev.Callback, occasionPrefix)
	}
	if occasion == "" {
		return textReply("What's the occasion for this trip? Pick one of the suggestions or type your own.")
	}

	// The suggestion set is advisory; arbitrary text is stored verbatim.
	s.Trip.Occasion = occasion
	s.State = nextState[s.State]
	return textReply(fmt.Sprintf(
		"Sweet, a trip for %s!\n\nOkay, last big detail: what's your estimated budget in USD? "+
			"Just type the number (like 5000 or 1500.50).", occasion))
}

func (m *Manager) handleBudget(s *Session, ev Event) Reply {
	if ev.Callback != "" {
		return ignored()
	}
	text := strings.TrimSpace(ev.Text)
	text = strings.TrimPrefix(text, "$")
	text = strings.ReplaceAll(text, ",", "")

	budget, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return textReply("That doesn't look like a valid number.\nPlease enter your budget in digits only (e.g. 3000 or 5000).")
	}
	if budget <= 0 {
		return textReply("Your budget must be a positive number.\nPlease enter a valid amount in USD.")
	}

	s.Trip.Budget = &budget
	s.State = StateComplete
	s.done = true
	completed := s.Trip
	// Consumed exactly once; the session is discarded here.
	m.sessions.Delete(s.ID)
	m.log.Info("conversation complete",
		zap.String("session", s.ID),
		zap.String("location", completed.Location),
		zap.Float64("budget", budget))

	return Reply{
		Messages: []string{fmt.Sprintf(
			"Thank you for the details!\n\nSummary of expedition inputs:\nDates: %s to %s\nLocation: %s\nOccasion: %s\nBudget: $%.2f",
			completed.StartDate.Format("2006-01-02"), completed.EndDate.Format("2006-01-02"),
			completed.Location, completed.Occasion, budget)},
		Completed: completed,
	}
}
