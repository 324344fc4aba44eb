// README: Terminal walkthrough of the conversation flow and the planning
// pipeline. Needs the same API credentials as the server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"expedition/internal/ai"
	"expedition/internal/config"
	"expedition/internal/conversation"
	"expedition/internal/geo"
	"expedition/internal/hotels"
	"expedition/internal/infra"
	"expedition/internal/planner"
	"expedition/internal/render"
	"expedition/internal/trip"
)

const sessionID = "terminal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := infra.NewLogger("error", "console")
	ctx := context.Background()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	geoSvc, err := geo.NewService(cfg.Maps.APIKey, redisClient, logger)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer llm.Close()

	p := planner.New(planner.Deps{
		Geocoder:     geoSvc,
		POIs:         geoSvc,
		Hotels:       hotels.NewClient(cfg.Amadeus.APIKey, cfg.Amadeus.APISecret, cfg.Amadeus.BaseURL, logger),
		LLM:          llm,
		Renderer:     render.New(cfg.Artifacts.Dir, cfg.Artifacts.MaxAge, logger),
		StageTimeout: cfg.Planner.StageTimeout,
		Log:          logger,
	})

	manager := conversation.NewManager(geoSvc, cfg.Session.TTL, logger)

	fmt.Println("Type your answers; enter a button number to press it; /cancel to quit.")
	var buttons []conversation.Button
	buttons = show(manager.Start(sessionID), buttons)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		ev := conversation.Event{SessionID: sessionID}
		switch {
		case line == "/cancel":
			ev.Cancel = true
		case isButtonIndex(line, len(buttons)):
			n, _ := strconv.Atoi(line)
			ev.Callback = buttons[n-1].Data
		default:
			ev.Text = line
		}

		reply := manager.HandleEvent(ctx, ev)
		buttons = show(reply, buttons)

		if reply.Cancelled {
			return
		}
		if reply.Completed != nil {
			runPlan(ctx, p, reply.Completed)
			return
		}
	}
}

func isButtonIndex(line string, max int) bool {
	n, err := strconv.Atoi(line)
	return err == nil && n >= 1 && n <= max
}

// show prints the reply and returns the flattened button list so numeric
// input can address it.
func show(r conversation.Reply, prev []conversation.Button) []conversation.Button {
	if r.Ignored {
		fmt.Println("(that input doesn't apply right now)")
		return prev
	}
	for _, msg := range r.Messages {
		fmt.Println(msg)
	}
	if len(r.Keyboard) == 0 {
		return nil
	}
	var flat []conversation.Button
	for _, row := range r.Keyboard {
		var labels []string
		for _, b := range row {
			flat = append(flat, b)
			labels = append(labels, fmt.Sprintf("[%d] %s", len(flat), b.Label))
		}
		fmt.Println(strings.Join(labels, "  "))
	}
	return flat
}

func runPlan(ctx context.Context, p *planner.Planner, req *trip.Request) {
	fmt.Println("\nPlanning your expedition...")
	res, err := p.Plan(ctx, req)
	if err != nil {
		log.Fatalf("plan: %v", err)
	}

	fmt.Println("\n" + res.Narrative)
	for _, h := range res.HotelSummaries() {
		fmt.Printf("Hotel: %s (%s)\n", h.Name, h.Price)
	}
	for _, poi := range res.POISummaries() {
		fmt.Printf("Sight: %s\n", poi.Name)
	}
	if res.PDFToken != "" {
		fmt.Printf("\nPDF rendered: %s\n", res.PDFToken)
	}
	for _, w := range res.Warnings() {
		fmt.Println("warning:", w)
	}
}
