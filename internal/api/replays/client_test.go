package replays

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sample = `{"Replay": {"ReplayStep": [
	{"BoardState": {"ActiveTeam": 1, "KickOffTeam": 0, "Ball": {"Cell": {"x": 3, "y": 4}, "IsHeld": 0}}},
	{"RulesEventEndTurn": {"Reason": 1, "NewDrive": 0}}
]}}`

func newClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(0)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		steps   int
		invalid bool
	}{
		{name: "step list", raw: sample, steps: 2},
		{name: "single step", raw: `{"Replay": {"ReplayStep": {"RulesEventEndTurn": ""}}}`, steps: 1},
		{name: "missing replay", raw: `{"Other": {}}`, invalid: true},
		{name: "missing steps", raw: `{"Replay": {}}`, invalid: true},
		{name: "board state not a record", raw: `{"Replay": {"ReplayStep": [{"BoardState": 7}]}}`, invalid: true},
		{name: "not json", raw: `<Replay/>`, invalid: true},
	}

	c := newClient(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := c.Decode([]byte(tt.raw))
			if tt.invalid {
				if !errors.Is(err, ErrInvalidReplay) {
					t.Errorf("Decode() error = %v, want %v", err, ErrInvalidReplay)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := len(doc.Replay.ReplayStep); got != tt.steps {
				t.Errorf("len(ReplayStep) = %d, want %d", got, tt.steps)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := newClient(t).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Replay.Filename != path {
		t.Errorf("Filename = %q, want %q", doc.Replay.Filename, path)
	}
	board := doc.Replay.ReplayStep[0].Board()
	if board == nil || board.ActiveTeam != 1 || board.Ball.Cell.X != 3 {
		t.Errorf("Board() = %+v, want active team 1 and ball at x 3", board)
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/match.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c := newClient(t)
	doc, err := c.Load(context.Background(), srv.URL+"/match.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Replay.URL != srv.URL+"/match.json" {
		t.Errorf("URL = %q, want %q", doc.Replay.URL, srv.URL+"/match.json")
	}

	if _, err := c.Load(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("Load() of a missing replay succeeded")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"https://rebbl.net/replays/match.json", true},
		{"http://localhost:8080/match.json", true},
		{"replays/match.json", false},
		{"/etc/passwd", false},
		{"file:///etc/passwd", false},
		{"ftp://example.com/match.json", false},
		{"https://", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := IsURL(tt.location); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.location, got, tt.want)
			}
		})
	}
}

func TestLoadURLTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chunked.json" {
			// Flushing first drops the Content-Length header.
			w.(http.Flusher).Flush()
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c := newClient(t)
	c.maxSize = 16
	for _, path := range []string{"/sized.json", "/chunked.json"} {
		t.Run(path, func(t *testing.T) {
			if _, err := c.Load(context.Background(), srv.URL+path); !errors.Is(err, ErrTooLarge) {
				t.Errorf("Load() error = %v, want %v", err, ErrTooLarge)
			}
		})
	}

	c.maxSize = int64(len(sample))
	if _, err := c.Load(context.Background(), srv.URL+"/sized.json"); err != nil {
		t.Errorf("Load() of a replay at the size limit error = %v", err)
	}
}
