package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/cpennington/dicedornot/internal/analysis"
	"github.com/cpennington/dicedornot/internal/api/replays"
	"github.com/cpennington/dicedornot/internal/bot"
	"github.com/cpennington/dicedornot/internal/config"
	"github.com/cpennington/dicedornot/internal/models"
	"github.com/cpennington/dicedornot/internal/repository/memory"
	"github.com/cpennington/dicedornot/internal/scheduler"
	"github.com/cpennington/dicedornot/internal/service"
	"github.com/cpennington/dicedornot/internal/writers"
)

const (
	inputFlag       = "input"
	outputFlag      = "output"
	formatFlag      = "format"
	simulationsFlag = "simulations"
	seedFlag        = "seed"
	playerFlag      = "player"
	swingsFlag      = "swings"
	dirFlag         = "dir"
	intervalFlag    = "interval"
	stdoutCLIName   = "-"
)

var version = "v0.1.0-dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newApp(cfg).RunContext(ctx, os.Args)
}

func newApp(cfg *config.Config) *cli.App {
	inputFlagDef := &cli.StringFlag{
		Name:     inputFlag,
		Aliases:  []string{"i"},
		Usage:    "The URL or path to the decoded replay JSON",
		Required: true,
	}
	simulationFlags := []cli.Flag{
		&cli.IntFlag{
			Name:        simulationsFlag,
			Usage:       "Number of simulated games for the luck percentiles, 0 to skip",
			Value:       cfg.Analysis.Simulations,
			Destination: &cfg.Analysis.Simulations,
		},
		&cli.Int64Flag{
			Name:        seedFlag,
			Usage:       "Seed for the luck simulation",
			Value:       cfg.Analysis.Seed,
			Destination: &cfg.Analysis.Seed,
		},
	}
	watchFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        dirFlag,
			Usage:       "Directory to watch for replay files",
			Value:       cfg.Watch.Dir,
			Destination: &cfg.Watch.Dir,
		},
		&cli.DurationFlag{
			Name:        intervalFlag,
			Usage:       "How often to look for new replays",
			Value:       cfg.Watch.Interval,
			Destination: &cfg.Watch.Interval,
		},
	}

	return &cli.App{
		Name:    "dicedornot",
		Usage:   "Measure how lucky each team's dice were in a Blood Bowl 2 replay",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Value every roll in a replay and write the full report",
				Flags: append([]cli.Flag{
					inputFlagDef,
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "The location to write the report. Can be a file path or \"-\" (for stdout).",
						Value:   stdoutCLIName,
					},
					&cli.StringFlag{
						Name:  formatFlag,
						Usage: "Report format: yaml or json",
						Value: "yaml",
					},
				}, simulationFlags...),
				Action: func(cCtx *cli.Context) error {
					return analyzeCommand(cCtx, cfg)
				},
			},
			{
				Name:  "summary",
				Usage: "Print a text summary of a replay",
				Flags: append([]cli.Flag{
					inputFlagDef,
					&cli.StringFlag{
						Name:  playerFlag,
						Usage: "Also list every roll of the player best matching this name",
					},
					&cli.IntFlag{
						Name:  swingsFlag,
						Usage: "Also list this many of the biggest swings",
					},
				}, simulationFlags...),
				Action: func(cCtx *cli.Context) error {
					return summaryCommand(cCtx, cfg)
				},
			},
			{
				Name:  "watch",
				Usage: "Analyze replays as they appear in a directory, pushing summaries to CHAT_ID when Telegram is configured (no chat commands; use bot for those)",
				Flags: append(watchFlags, simulationFlags...),
				Action: func(cCtx *cli.Context) error {
					return watchCommand(cCtx, cfg, false)
				},
			},
			{
				Name:  "bot",
				Usage: "Run the Telegram bot and the directory watcher",
				Flags: append(watchFlags, simulationFlags...),
				Action: func(cCtx *cli.Context) error {
					return watchCommand(cCtx, cfg, true)
				},
			},
		},
	}
}

func newService(cfg *config.Config) (*service.AnalysisService, error) {
	client, err := replays.NewClient(cfg.Analysis.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	repo := memory.NewRepository()
	opts := analysis.Options{
		Decay:       cfg.Analysis.Decay,
		Simulations: cfg.Analysis.Simulations,
		Seed:        cfg.Analysis.Seed,
	}
	return service.NewAnalysisService(client, repo, opts), nil
}

func analyzeCommand(cCtx *cli.Context, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	report, err := svc.Analyze(cCtx.Context, cCtx.String(inputFlag))
	if err != nil {
		return err
	}

	var out io.WriteCloser = os.Stdout
	if loc := cCtx.String(outputFlag); loc != stdoutCLIName {
		out = writers.NewLazyFile(loc)
	}
	defer out.Close()
	return encodeReport(out, report, cCtx.String(formatFlag))
}

func encodeReport(w io.Writer, report *models.Report, format string) error {
	switch format {
	case "yaml":
		yamlEncoder := yaml.NewEncoder(w)
		yamlEncoder.SetIndent(2)
		if err := yamlEncoder.Encode(report); err != nil {
			return fmt.Errorf("encoding to YAML failed: %w", err)
		}
		if err := yamlEncoder.Close(); err != nil {
			return fmt.Errorf("encoding to YAML failed on close: %w", err)
		}
	case "json":
		jsonEncoder := json.NewEncoder(w)
		jsonEncoder.SetIndent("", "  ")
		if err := jsonEncoder.Encode(report); err != nil {
			return fmt.Errorf("encoding to JSON failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q, want yaml or json", format)
	}
	return nil
}

func summaryCommand(cCtx *cli.Context, cfg *config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	loc := cCtx.String(inputFlag)
	summary, err := svc.GetSummary(cCtx.Context, loc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cCtx.App.Writer, summary)

	if n := cCtx.Int(swingsFlag); n > 0 {
		swings, err := svc.GetBiggestSwings(cCtx.Context, loc, n)
		if err != nil {
			return err
		}
		fmt.Fprintln(cCtx.App.Writer, swings)
	}
	if name := cCtx.String(playerFlag); name != "" {
		rolls, err := svc.GetPlayerRolls(cCtx.Context, loc, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(cCtx.App.Writer, rolls)
	}
	return nil
}

// telegramUse decides whether a command needs a Telegram client and whether
// new summaries are pushed to a chat. The watch command only pushes, so it
// needs both a token and a chat; the bot command always answers commands.
func telegramUse(cfg *config.Config, withBot bool) (build, push bool, err error) {
	push = cfg.TelegramEnabled() && cfg.TelegramBot.ChatID != 0
	if withBot && !cfg.TelegramEnabled() {
		return false, false, fmt.Errorf("TELEGRAM_TOKEN must be set for the bot command")
	}
	return withBot || push, push, nil
}

// watchCommand polls the watch directory until interrupted. With withBot
// set it also answers Telegram commands and pushes each new summary to the
// configured chat.
func watchCommand(cCtx *cli.Context, cfg *config.Config, withBot bool) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	ctx := cCtx.Context

	sendMessage := func(text string) error {
		slog.Info("New replay analyzed", "summary", text)
		return nil
	}

	build, push, err := telegramUse(cfg, withBot)
	if err != nil {
		return err
	}
	var telegramBot *bot.TelegramBot
	if build {
		telegramBot, err = bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, svc)
		if err != nil {
			return fmt.Errorf("error creating telegram bot: %w", err)
		}
		if push {
			sendMessage = telegramBot.SendMessage
		}
	}

	sched, err := scheduler.NewScheduler(svc, cfg.Watch.Dir, cfg.Watch.Interval, sendMessage)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	if withBot {
		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")
	return nil
}
