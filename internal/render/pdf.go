// README: Itinerary PDF rendering and the single-use artifact cache.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"expedition/internal/trip"
)

// ErrNotFound is returned when an artifact token does not resolve: never
// rendered, already downloaded, or swept.
var ErrNotFound = errors.New("artifact not found or expired")

// Renderer writes itinerary PDFs into a cache directory. Artifacts are
// single-use: the first download removes them. A sweep before each render
// drops artifacts older than maxAge.
type Renderer struct {
	dir    string
	maxAge time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func New(dir string, maxAge time.Duration, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{dir: dir, maxAge: maxAge, log: log, now: time.Now}
}

// Render builds the PDF and returns an opaque download token.
func (r *Renderer) Render(req *trip.Request, narrative string) (string, error) {
	r.sweep()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, safeText(fmt.Sprintf("Trip to %s", req.Location)), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 12)
	subtitle := fmt.Sprintf("%s - %s | Budget: $%.2f",
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), *req.Budget)
	pdf.CellFormat(0, 10, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 10, safeText(narrative), "", "L", false)

	token := uuid.NewString() + ".pdf"
	if err := pdf.OutputFileAndClose(filepath.Join(r.dir, token)); err != nil {
		return "", fmt.Errorf("pdf output: %w", err)
	}
	r.log.Info("itinerary rendered", zap.String("token", token), zap.String("location", req.Location))
	return token, nil
}

// Take returns the artifact bytes and deletes the file, enforcing
// at-most-once download semantics. Tokens that do not look like rendered
// filenames are rejected outright.
func (r *Renderer) Take(token string) ([]byte, error) {
	name := strings.TrimSuffix(token, ".pdf")
	if name == token {
		return nil, ErrNotFound
	}
	if _, err := uuid.Parse(name); err != nil {
		return nil, ErrNotFound
	}

	path := filepath.Join(r.dir, token)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		r.log.Warn("artifact delete failed", zap.String("token", token), zap.Error(err))
	}
	return data, nil
}

// sweep removes cached artifacts older than maxAge. Opportunistic; errors
// are logged and skipped.
func (r *Renderer) sweep() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		r.log.Warn("artifact sweep failed", zap.Error(err))
		return
	}
	cutoff := r.now().Add(-r.maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		if _, err := uuid.Parse(strings.TrimSuffix(e.Name(), ".pdf")); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(r.dir, e.Name())); err == nil {
				r.log.Info("stale artifact swept", zap.String("token", e.Name()))
			}
		}
	}
}

// safeText drops characters the core PDF fonts cannot encode and strips
// markdown markers the model sometimes emits anyway.
func safeText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "#", "")
	var b strings.Builder
	for _, r := range text {
		if r == '\n' || (r >= 32 && r <= 255) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
