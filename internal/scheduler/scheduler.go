package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/cpennington/dicedornot/internal/service"
)

// Scheduler polls a directory for replay files it has not analyzed yet and
// publishes a summary of each.
type Scheduler struct {
	s               gocron.Scheduler
	analysisService *service.AnalysisService
	sendMessage     func(string) error
	dir             string
	interval        time.Duration

	mu   sync.Mutex
	seen map[string]bool
}

func NewScheduler(analysisService *service.AnalysisService, dir string, interval time.Duration, sendMessage func(string) error) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive, got %v", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:               s,
		analysisService: analysisService,
		sendMessage:     sendMessage,
		dir:             dir,
		interval:        interval,
		seen:            map[string]bool{},
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.scanReplays),
		gocron.WithName("watch "+s.dir),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create watch job: %w", err)
	}

	slog.Info("Watching for replays", "dir", s.dir, "interval", s.interval)
	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) scanReplays() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	if _, err := s.Scan(ctx); err != nil {
		slog.Error("Failed to scan for replays", "dir", s.dir, "error", err)
	}
}

// Scan analyzes every new *.json file in the watch directory and returns
// how many were analyzed. A file that fails to analyze is logged and not
// retried.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Watch directory does not exist yet", "dir", s.dir)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading %s: %w", s.dir, err)
	}

	analyzed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}
		path := filepath.Join(s.dir, entry.Name())
		if !s.markSeen(path) {
			continue
		}

		report, err := s.analysisService.Analyze(ctx, path)
		if err != nil {
			slog.Error("Failed to analyze replay", "path", path, "error", err)
			continue
		}
		analyzed++
		if s.sendMessage != nil {
			if err := s.sendMessage(service.FormatSummary(report)); err != nil {
				slog.Error("Failed to send summary", "path", path, "error", err)
			}
		}
	}
	return analyzed, nil
}

func (s *Scheduler) markSeen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[path] {
		return false
	}
	s.seen[path] = true
	return true
}
