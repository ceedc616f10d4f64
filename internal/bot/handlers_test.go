package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cpennington/dicedornot/internal/analysis"
	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/models"
	"github.com/cpennington/dicedornot/internal/repository/memory"
	"github.com/cpennington/dicedornot/internal/service"
)

type stubLoader struct{}

func (stubLoader) Load(context.Context, string) (*bb2.Document, error) {
	return &bb2.Document{}, nil
}

func command(text string) tgbotapi.Update {
	name, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 7},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func TestHandleCommand(t *testing.T) {
	repo := memory.NewRepository()
	repo.SaveReport(&models.Report{
		Location: "match.json",
		Actions: []models.ActionReport{
			{Turn: 1, Player: "Griff Oberwald", ShortDescription: "Dodge", Description: "Griff Oberwald Dodge", Delta: 0.1},
			{Turn: 4, Player: "Morg", ShortDescription: "Block", Description: "Morg Block", Delta: -0.6},
		},
	})
	h := NewHandler(service.NewAnalysisService(stubLoader{}, repo, analysis.Options{}))

	tests := []struct {
		text string
		want string
	}{
		{text: "/help", want: "/player <name>"},
		{text: "/swings 1", want: "Morg Block"},
		{text: "/swings zero", want: "Usage: /swings"},
		{text: "/player griff", want: "T1 Dodge"},
		{text: "/player", want: "Usage: /player"},
		{text: "/unknown", want: "Every roll"},
		{text: "/replays", want: "match.json"},
		{text: "/analyze /etc/passwd", want: "Only replay URLs"},
		{text: "/summary /etc/passwd", want: "No analyzed replay named"},
		{text: "/summary match.json", want: "2 rolls analyzed"},
		{text: "/nope", want: "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			msg := h.HandleCommand(context.Background(), command(tt.text))
			if msg.ChatID != 7 {
				t.Errorf("ChatID = %d, want 7", msg.ChatID)
			}
			if msg.ParseMode != "Markdown" {
				t.Errorf("ParseMode = %q, want Markdown", msg.ParseMode)
			}
			if !strings.Contains(msg.Text, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, want it to contain %q", tt.text, msg.Text, tt.want)
			}
		})
	}
}
