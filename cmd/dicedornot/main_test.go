package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cpennington/dicedornot/internal/config"
	"github.com/cpennington/dicedornot/internal/models"
)

func TestEncodeReport(t *testing.T) {
	report := &models.Report{
		Location: "match.json",
		Game: models.GameDetails{
			Home: models.TeamResult{Team: "Reikland Reavers", Score: 2},
		},
		Unknown: []models.UnknownCount{{Name: "HypnoticGaze", Count: 1}},
	}

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{format: "yaml", decode: yaml.Unmarshal},
		{format: "json", decode: json.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encodeReport(&buf, report, tt.format); err != nil {
				t.Fatalf("encodeReport() error = %v", err)
			}
			var got models.Report
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decoding %s output: %v\n%s", tt.format, err, buf.String())
			}
			if got.Game.Home.Team != "Reikland Reavers" || len(got.Unknown) != 1 {
				t.Errorf("decoded report = %+v", got)
			}
		})
	}

	if err := encodeReport(&bytes.Buffer{}, report, "xml"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("encodeReport(xml) error = %v, want unknown format", err)
	}
}

func TestTelegramUse(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		chatID    int64
		withBot   bool
		wantBuild bool
		wantPush  bool
		wantErr   bool
	}{
		{name: "watch without telegram"},
		{name: "watch with token but no chat", token: "t"},
		{name: "watch pushes to chat", token: "t", chatID: 9, wantBuild: true, wantPush: true},
		{name: "bot without chat", token: "t", withBot: true, wantBuild: true},
		{name: "bot with chat", token: "t", chatID: 9, withBot: true, wantBuild: true, wantPush: true},
		{name: "bot without token", withBot: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{TelegramBot: config.TelegramBot{Token: tt.token, ChatID: tt.chatID}}
			build, push, err := telegramUse(cfg, tt.withBot)
			if (err != nil) != tt.wantErr {
				t.Fatalf("telegramUse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if build != tt.wantBuild || push != tt.wantPush {
				t.Errorf("telegramUse() = %v, %v, want %v, %v", build, push, tt.wantBuild, tt.wantPush)
			}
		})
	}
}
