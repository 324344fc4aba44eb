// README: Inline calendar picker with year -> month -> day drill-down.
package conversation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrStaleCallback marks a picker event that belongs to a superseded picker
// or does not decode. Callers ignore the event without touching state.
var ErrStaleCallback = errors.New("stale or malformed calendar callback")

// Level is the current drill-down depth of the picker.
type Level int

const (
	LevelYear Level = iota
	LevelMonth
	LevelDay
)

const yearsPerPage = 12

// Button is one pressable cell of an inline keyboard. Data is the callback
// payload the transport echoes back.
type Button struct {
	Label string
	Data  string
}

// Picker renders a drill-down calendar and decodes its callback events.
// A non-nil min date is enforced structurally: earlier days are rendered as
// inert cells and their callbacks are rejected.
type Picker struct {
	nonce  string
	level  Level
	cursor time.Time // first visible year (year level) or anchor month
	min    *time.Time
}

// NewPicker builds a picker starting at the year level around now.
// min, when non-nil, is the earliest selectable date.
func NewPicker(min *time.Time, now time.Time) *Picker {
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if min != nil && anchor.Before(time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)) {
		anchor = time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return &Picker{
		nonce:  uuid.NewString()[:8],
		level:  LevelYear,
		cursor: anchor,
		min:    min,
	}
}

// StepLabel names the current drill-down step for the prompt text.
func (p *Picker) StepLabel() string {
	switch p.level {
	case LevelYear:
		return "year"
	case LevelMonth:
		return "month"
	default:
		return "day"
	}
}

func (p *Picker) data(action, value string) string {
	return fmt.Sprintf("cal|%s|%s|%s", p.nonce, action, value)
}

func (p *Picker) noop() Button {
	return Button{Label: " ", Data: p.data("noop", "")}
}

// Keyboard renders the picker at its current level.
func (p *Picker) Keyboard() [][]Button {
	switch p.level {
	case LevelYear:
		return p.yearKeyboard()
	case LevelMonth:
		return p.monthKeyboard()
	default:
		return p.dayKeyboard()
	}
}

func (p *Picker) yearKeyboard() [][]Button {
	first := p.cursor.Year()
	rows := [][]Button{{
		Button{Label: "<<", Data: p.data("prev", "")},
		Button{Label: fmt.Sprintf("%d-%d", first, first+yearsPerPage-1), Data: p.data("noop", "")},
		Button{Label: ">>", Data: p.data("next", "")},
	}}
	for r := 0; r < 3; r++ {
		var row []Button
		for c := 0; c < 4; c++ {
			y := first + r*4 + c
			if p.min != nil && y < p.min.Year() {
				row = append(row, p.noop())
				continue
			}
			row = append(row, Button{Label: fmt.Sprintf("%d", y), Data: p.data("year", fmt.Sprintf("%d", y))})
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Picker) monthKeyboard() [][]Button {
	year := p.cursor.Year()
	rows := [][]Button{{
		Button{Label: "<<", Data: p.data("back", "")},
		Button{Label: fmt.Sprintf("%d", year), Data: p.data("noop", "")},
		Button{Label: " ", Data: p.data("noop", "")},
	}}
	for r := 0; r < 3; r++ {
		var row []Button
		for c := 0; c < 4; c++ {
			m := time.Month(r*4 + c + 1)
			if p.min != nil && year == p.min.Year() && m < p.min.Month() {
				row = append(row, p.noop())
				continue
			}
			value := fmt.Sprintf("%d-%02d", year, int(m))
			row = append(row, Button{Label: m.String()[:3], Data: p.data("month", value)})
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Picker) dayKeyboard() [][]Button {
	year, month := p.cursor.Year(), p.cursor.Month()
	rows := [][]Button{{
		Button{Label: "..", Data: p.data("back", "")},
		Button{Label: "<<", Data: p.data("prev", "")},
		Button{Label: fmt.Sprintf("%s %d", month.String()[:3], year), Data: p.data("noop", "")},
		Button{Label: ">>", Data: p.data("next", "")},
	}}

	weekdays := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	var header []Button
	for _, wd := range weekdays {
		header = append(header, Button{Label: wd, Data: p.data("noop", "")})
	}
	rows = append(rows, header)

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Monday-first offset.
	offset := (int(firstOfMonth.Weekday()) + 6) % 7
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	var row []Button
	for i := 0; i < offset; i++ {
		row = append(row, p.noop())
	}
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		if p.min != nil && day.Before(*p.min) {
			row = append(row, p.noop())
		} else {
			row = append(row, Button{Label: fmt.Sprintf("%d", d), Data: p.data("day", day.Format("2006-01-02"))})
		}
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, p.noop())
		}
		rows = append(rows, row)
	}
	return rows
}

// Process decodes a callback payload. It returns the selected date when the
// event is a final day selection; otherwise a nil date with rerender=true
// after a navigation event. Nonce mismatches, malformed payloads, and
// below-minimum selections return ErrStaleCallback.
func (p *Picker) Process(data string) (*time.Time, bool, error) {
	parts := strings.SplitN(data, "|", 4)
	if len(parts) != 4 || parts[0] != "cal" || parts[1] != p.nonce {
		return nil, false, ErrStaleCallback
	}
	action, value := parts[2], parts[3]

	switch action {
	case "noop":
		return nil, false, nil
	case "prev":
		if p.level == LevelYear {
			p.cursor = p.cursor.AddDate(-yearsPerPage, 0, 0)
		} else {
			p.cursor = p.cursor.AddDate(0, -1, 0)
		}
		return nil, true, nil
	case "next":
		if p.level == LevelYear {
			p.cursor = p.cursor.AddDate(yearsPerPage, 0, 0)
		} else {
			p.cursor = p.cursor.AddDate(0, 1, 0)
		}
		return nil, true, nil
	case "back":
		// Back up one level: day -> month -> year.
		if p.level == LevelDay {
			p.level = LevelMonth
		} else {
			p.level = LevelYear
		}
		return nil, true, nil
	case "year":
		y, err := time.Parse("2006", value)
		if err != nil {
			return nil, false, ErrStaleCallback
		}
		p.cursor = time.Date(y.Year(), p.cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.level = LevelMonth
		return nil, true, nil
	case "month":
		m, err := time.Parse("2006-01", value)
		if err != nil {
			return nil, false, ErrStaleCallback
		}
		p.cursor = time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.level = LevelDay
		return nil, true, nil
	case "day":
		day, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, false, ErrStaleCallback
		}
		if p.min != nil && day.Before(*p.min) {
			return nil, false, ErrStaleCallback
		}
		return &day, false, nil
	default:
		return nil, false, ErrStaleCallback
	}
}
