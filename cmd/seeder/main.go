// Command seeder loads a small demo league into a running API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8080/api/v1"

type seedClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *seedClient) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: %s: %s", path, resp.Status, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

type created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type result struct {
	PlayerID string `json:"playerId"`
	Rank     int    `json:"rank,omitempty"`
	Score    *int   `json:"score,omitempty"`
}

func score(n int) *int { return &n }

func main() {
	_ = godotenv.Load()

	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		log.Fatal("ADMIN_TOKEN must be set")
	}
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	c := &seedClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}

	games := map[string]created{}
	for _, g := range []map[string]interface{}{
		{"name": "Catan", "scoringMode": "pointing"},
		{"name": "Ticket to Ride", "scoringMode": "pointing"},
		{"name": "Love Letter", "scoringMode": "winner-takes-all"},
		{"name": "Codenames", "scoringMode": "winner-takes-all", "pointsPerPlayer": 2},
	} {
		var out created
		if err := c.post("/games", g, &out); err != nil {
			log.Fatalf("create game: %v", err)
		}
		games[out.Name] = out
		log.Printf("game %s (%s)", out.Name, out.ID)
	}

	players := map[string]created{}
	for _, name := range []string{"Alice", "Bob", "Chen", "Dana", "Eli"} {
		var out created
		if err := c.post("/players", map[string]string{"name": name}, &out); err != nil {
			log.Fatalf("create player: %v", err)
		}
		players[name] = out
		log.Printf("player %s (%s)", out.Name, out.ID)
	}

	p := func(name string) string { return players[name].ID }
	now := time.Now().UTC()

	sessions := []struct {
		game    string
		daysAgo int
		results []result
	}{
		{"Catan", 21, []result{{p("Alice"), 1, nil}, {p("Bob"), 2, nil}, {p("Chen"), 3, nil}, {p("Dana"), 4, nil}}},
		{"Catan", 14, []result{{p("Bob"), 1, nil}, {p("Alice"), 2, nil}, {p("Eli"), 2, nil}}},
		{"Ticket to Ride", 12, []result{
			{PlayerID: p("Chen"), Score: score(132)},
			{PlayerID: p("Dana"), Score: score(118)},
			{PlayerID: p("Alice"), Score: score(97)},
		}},
		{"Love Letter", 7, []result{{p("Dana"), 1, nil}, {p("Eli"), 2, nil}, {p("Bob"), 2, nil}}},
		{"Codenames", 3, []result{{p("Alice"), 1, nil}, {p("Chen"), 1, nil}, {p("Bob"), 2, nil}, {p("Eli"), 2, nil}}},
		{"Catan", 1, []result{{p("Eli"), 1, nil}, {p("Alice"), 2, nil}, {p("Dana"), 3, nil}, {p("Bob"), 4, nil}, {p("Chen"), 5, nil}}},
	}

	for _, s := range sessions {
		body := map[string]interface{}{
			"gameId":   games[s.game].ID,
			"playedAt": now.AddDate(0, 0, -s.daysAgo),
			"results":  s.results,
		}
		if err := c.post("/sessions", body, nil); err != nil {
			log.Fatalf("record session: %v", err)
		}
		log.Printf("session %s, %d players", s.game, len(s.results))
	}

	night := map[string]interface{}{
		"title":       "Friday Game Night",
		"scheduledAt": now.AddDate(0, 0, 4).Truncate(time.Hour),
		"location":    "Community Hall",
	}
	if err := c.post("/game-nights", night, nil); err != nil {
		log.Fatalf("schedule game night: %v", err)
	}

	log.Printf("Seed complete: %d games, %d players, %d sessions", len(games), len(players), len(sessions))
}
