package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cpennington/dicedornot/internal/service"
)

// maxMessageLength is Telegram's limit on the text of one message.
const maxMessageLength = 4096

type TelegramBot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, analysisService *service.AnalysisService) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error connecting to telegram: %w", err)
	}
	return &TelegramBot{
		api:     api,
		handler: NewHandler(analysisService),
		chatID:  chatID,
	}, nil
}

// Start answers commands until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.api.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			slog.Debug("Command received", "command", update.Message.Command(), "chat", update.Message.Chat.ID)
			if err := t.send(t.handler.HandleCommand(ctx, update)); err != nil {
				slog.Error("Error answering command", "command", update.Message.Command(), "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage pushes a report to the configured chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return fmt.Errorf("chat ID not set")
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return t.send(msg)
}

// send delivers msg in as many parts as its length requires. A part whose
// Markdown Telegram rejects is resent as plain text.
func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	for _, part := range SplitMessage(msg.Text, maxMessageLength) {
		chunk := msg
		chunk.Text = part
		_, err := t.api.Send(chunk)
		if isParseError(err) && chunk.ParseMode != "" {
			slog.Warn("Telegram rejected markdown, sending plain text", "error", err)
			chunk.ParseMode = ""
			_, err = t.api.Send(chunk)
		}
		if err != nil {
			return fmt.Errorf("error sending message: %w", err)
		}
	}
	return nil
}

func isParseError(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && strings.Contains(tgErr.Message, "can't parse entities")
}

// SplitMessage breaks text into parts of at most limit runes, splitting
// between lines where it can.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return parts
}
