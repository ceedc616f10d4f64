package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cpennington/dicedornot/internal/api/replays"
	"github.com/cpennington/dicedornot/internal/service"
)

const defaultSwings = 5

const helpText = "Available commands:\n" +
	"/summary [replay] - Luck summary of the latest (or named) replay\n" +
	"/swings [n] - Rolls that swung the game the most\n" +
	"/player <name> - Every roll a player made\n" +
	"/unknown - Rolls that could not be valued\n" +
	"/analyze <url> - Analyze a replay\n" +
	"/replays - List analyzed replays"

type Handler struct {
	analysisService *service.AnalysisService
}

func NewHandler(analysisService *service.AnalysisService) *Handler {
	return &Handler{analysisService: analysisService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to Diced or Not! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "summary":
		h.handleSummary(ctx, &msg, args)
	case "swings":
		h.handleSwings(ctx, &msg, args)
	case "player":
		h.handlePlayer(ctx, &msg, args)
	case "unknown":
		h.handleUnknown(ctx, &msg)
	case "analyze":
		h.handleAnalyze(ctx, &msg, args)
	case "replays":
		msg.Text = h.analysisService.GetReplays()
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleSummary(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args != "" && !replays.IsURL(args) && !h.analysisService.Known(args) {
		msg.Text = fmt.Sprintf("No analyzed replay named '%s'. Use /replays to list them.", args)
		return
	}
	summary, err := h.analysisService.GetSummary(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching summary: %v", err)
	} else {
		msg.Text = summary
	}
}

func (h *Handler) handleSwings(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	n := defaultSwings
	if args != "" {
		var err error
		n, err = strconv.Atoi(args)
		if err != nil || n <= 0 {
			msg.Text = "Please provide a positive number. Usage: /swings [n]"
			return
		}
	}
	report, err := h.analysisService.GetBiggestSwings(ctx, "", n)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching swings: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handlePlayer(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /player <player name>"
		return
	}
	result, err := h.analysisService.GetPlayerRolls(ctx, "", args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching player rolls: %v", err)
	} else {
		msg.Text = result
	}
}

func (h *Handler) handleUnknown(ctx context.Context, msg *tgbotapi.MessageConfig) {
	report, err := h.analysisService.GetUnknowns(ctx, "")
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching unknown rolls: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleAnalyze(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a replay URL. Usage: /analyze <url>"
		return
	}
	if !replays.IsURL(args) {
		msg.Text = "Only replay URLs can be analyzed from chat."
		return
	}
	report, err := h.analysisService.Analyze(ctx, args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error analyzing replay: %v", err)
	} else {
		msg.Text = service.FormatSummary(report)
	}
}
