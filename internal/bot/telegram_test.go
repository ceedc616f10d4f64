package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "short", text: "one\ntwo", limit: 10, want: []string{"one\ntwo"}},
		{name: "line boundaries", text: "aaa\nbbb\nccc", limit: 8, want: []string{"aaa\nbbb\n", "ccc"}},
		{name: "long line", text: "abcdefgh\nxy", limit: 3, want: []string{"abc", "def", "gh\n", "xy"}},
		{name: "runes", text: "🎲🎲🎲🎲", limit: 2, want: []string{"🎲🎲", "🎲🎲"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.limit)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("SplitMessage() = %q, want %q", got, tt.want)
			}
			if strings.Join(got, "") != tt.text {
				t.Errorf("SplitMessage() parts do not rejoin to the input")
			}
		})
	}
}

func TestSplitLongReport(t *testing.T) {
	report := strings.Repeat("T3 Griff Oberwald Dodge 3+: +0.125\n", 300)
	parts := SplitMessage(report, maxMessageLength)
	if len(parts) < 2 {
		t.Fatalf("len(SplitMessage()) = %d, want at least 2", len(parts))
	}
	for i, p := range parts {
		if n := utf8.RuneCountInString(p); n > maxMessageLength {
			t.Errorf("part %d has %d runes, want at most %d", i, n, maxMessageLength)
		}
		if !strings.HasSuffix(p, "\n") {
			t.Errorf("part %d splits a line", i)
		}
	}
}

func TestIsParseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"parse", &tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities: Can't find end of the entity"}, true},
		{"wrapped parse", fmt.Errorf("send: %w", &tgbotapi.Error{Message: "Bad Request: can't parse entities"}), true},
		{"other", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, false},
		{"network", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isParseError(tt.err); got != tt.want {
				t.Errorf("isParseError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
