package conversation

import (
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)
}

// findButton returns the callback data of the first button with the label.
func findButton(t *testing.T, kb [][]Button, label string) string {
	t.Helper()
	for _, row := range kb {
		for _, b := range row {
			if b.Label == label {
				return b.Data
			}
		}
	}
	t.Fatalf("button %q not found in keyboard", label)
	return ""
}

func TestPickerDrillDown(t *testing.T) {
	p := NewPicker(nil, fixedNow())

	if p.StepLabel() != "year" {
		t.Fatalf("fresh picker step = %q, want year", p.StepLabel())
	}

	sel, rerender, err := p.Process(findButton(t, p.Keyboard(), "2025"))
	if err != nil || sel != nil || !rerender {
		t.Fatalf("year click: sel=%v rerender=%v err=%v", sel, rerender, err)
	}
	if p.StepLabel() != "month" {
		t.Fatalf("after year click step = %q, want month", p.StepLabel())
	}

	sel, rerender, err = p.Process(findButton(t, p.Keyboard(), "Dec"))
	if err != nil || sel != nil || !rerender {
		t.Fatalf("month click: sel=%v rerender=%v err=%v", sel, rerender, err)
	}
	if p.StepLabel() != "day" {
		t.Fatalf("after month click step = %q, want day", p.StepLabel())
	}

	sel, _, err = p.Process(findButton(t, p.Keyboard(), "7"))
	if err != nil || sel == nil {
		t.Fatalf("day click: sel=%v err=%v", sel, err)
	}
	want := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	if !sel.Equal(want) {
		t.Errorf("selected %v, want %v", sel, want)
	}
}

func TestPickerNavigationNeverSelects(t *testing.T) {
	p := NewPicker(nil, fixedNow())
	p.Process(findButton(t, p.Keyboard(), "2025"))
	p.Process(findButton(t, p.Keyboard(), "Dec"))

	for _, label := range []string{"<<", ">>"} {
		sel, rerender, err := p.Process(findButton(t, p.Keyboard(), label))
		if err != nil || sel != nil || !rerender {
			t.Fatalf("nav %q: sel=%v rerender=%v err=%v", label, sel, rerender, err)
		}
	}
}

func TestPickerBackClimbsLevels(t *testing.T) {
	p := NewPicker(nil, fixedNow())
	p.Process(findButton(t, p.Keyboard(), "2025"))
	p.Process(findButton(t, p.Keyboard(), "Dec"))
	if p.StepLabel() != "day" {
		t.Fatalf("step = %q, want day", p.StepLabel())
	}

	// Back from the day grid returns to the month grid, not the year grid.
	sel, rerender, err := p.Process(findButton(t, p.Keyboard(), ".."))
	if err != nil || sel != nil || !rerender {
		t.Fatalf("day back: sel=%v rerender=%v err=%v", sel, rerender, err)
	}
	if p.StepLabel() != "month" {
		t.Fatalf("after day back step = %q, want month", p.StepLabel())
	}

	// Back again reaches the year grid.
	p.Process(findButton(t, p.Keyboard(), "<<"))
	if p.StepLabel() != "year" {
		t.Fatalf("after month back step = %q, want year", p.StepLabel())
	}
}

func TestPickerMinDateBound(t *testing.T) {
	min := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)
	p := NewPicker(&min, fixedNow())

	p.Process(findButton(t, p.Keyboard(), "2025"))
	p.Process(findButton(t, p.Keyboard(), "Dec"))

	// Days below the bound are inert cells, so "9" must not be rendered as a
	// selectable button.
	for _, row := range p.Keyboard() {
		for _, b := range row {
			if b.Label == "9" && strings.Contains(b.Data, "|day|") {
				t.Fatal("day below the minimum was rendered selectable")
			}
		}
	}

	// A forged payload below the bound is rejected outright.
	if _, _, err := p.Process("cal|" + p.nonce + "|day|2025-12-09"); err != ErrStaleCallback {
		t.Errorf("forged below-minimum selection: err=%v, want ErrStaleCallback", err)
	}

	sel, _, err := p.Process("cal|" + p.nonce + "|day|2025-12-10")
	if err != nil || sel == nil || !sel.Equal(min) {
		t.Errorf("minimum itself must be selectable: sel=%v err=%v", sel, err)
	}
}

func TestPickerStaleNonce(t *testing.T) {
	p := NewPicker(nil, fixedNow())
	stale := NewPicker(nil, fixedNow())

	if _, _, err := p.Process(findButton(t, stale.Keyboard(), "2025")); err != ErrStaleCallback {
		t.Errorf("callback from another picker: err=%v, want ErrStaleCallback", err)
	}
	if _, _, err := p.Process("garbage"); err != ErrStaleCallback {
		t.Errorf("malformed callback: err=%v, want ErrStaleCallback", err)
	}
}
