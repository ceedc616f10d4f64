package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cpennington/dicedornot/internal/analysis"
	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/models"
	"github.com/cpennington/dicedornot/internal/repository/memory"
)

var ErrNoReport = errors.New("no replay has been analyzed yet")

// Loader fetches a decoded replay.
type Loader interface {
	Load(ctx context.Context, location string) (*bb2.Document, error)
}

type AnalysisService struct {
	loader Loader
	repo   *memory.Repository
	opts   analysis.Options
}

func NewAnalysisService(loader Loader, repo *memory.Repository, opts analysis.Options) *AnalysisService {
	return &AnalysisService{loader: loader, repo: repo, opts: opts}
}

// Analyze loads and analyzes the replay at location and stores the report.
func (s *AnalysisService) Analyze(ctx context.Context, location string) (*models.Report, error) {
	doc, err := s.loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	report, err := analysis.Process(doc, location, s.opts)
	if err != nil {
		return nil, fmt.Errorf("error analyzing %s: %w", location, err)
	}
	s.repo.SaveReport(report)
	return report, nil
}

// report returns the stored report for location, analyzing it on first
// use. An empty location means the latest report.
func (s *AnalysisService) report(ctx context.Context, location string) (*models.Report, error) {
	if location == "" {
		report := s.repo.Latest()
		if report == nil {
			return nil, ErrNoReport
		}
		return report, nil
	}
	if report, ok := s.repo.GetReport(location); ok {
		return report, nil
	}
	return s.Analyze(ctx, location)
}

// Known reports whether location has already been analyzed.
func (s *AnalysisService) Known(location string) bool {
	_, ok := s.repo.GetReport(location)
	return ok
}

func (s *AnalysisService) GetSummary(ctx context.Context, location string) (string, error) {
	report, err := s.report(ctx, location)
	if err != nil {
		return "", fmt.Errorf("error fetching report: %w", err)
	}
	return FormatSummary(report), nil
}

// md escapes replay text (team, coach and player names) for the Markdown
// the reports are written in.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// FormatSummary renders the score, each team's luck and the unknown rolls.
func FormatSummary(report *models.Report) string {
	g := report.Game
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎲 *%s %d - %d %s*\n", md(g.Home.Team), g.Home.Score, g.Away.Score, md(g.Away.Team)))
	sb.WriteString(fmt.Sprintf("%s vs %s\n", md(g.Home.Coach), md(g.Away.Coach)))
	if g.League != "" {
		sb.WriteString(fmt.Sprintf("%s, %s\n", md(g.League), md(g.Stadium)))
	} else {
		sb.WriteString(md(g.Stadium) + "\n")
	}
	sb.WriteString(fmt.Sprintf("%d rolls analyzed\n", len(report.Actions)))

	if len(report.Luck) > 0 {
		sb.WriteString("\n*Luck*\n")
		for _, l := range report.Luck {
			sb.WriteString(fmt.Sprintf("%s: %+.3f vs %+.3f expected (%s, %.0f%%)\n",
				md(l.Team), l.Actual, l.Expected, luckLabel(l), l.Percentile*100))
		}
	}

	if len(report.Unknown) > 0 {
		sb.WriteString("\n*Not valued*\n")
		for _, u := range report.Unknown {
			sb.WriteString(fmt.Sprintf("  • %s ×%d\n", md(u.Name), u.Count))
		}
	}
	if report.Halt != nil {
		sb.WriteString(fmt.Sprintf("\n⚠️ Stopped at step %d: %s\n", report.Halt.Step, md(report.Halt.Reason)))
	}
	return sb.String()
}

func luckLabel(l models.TeamLuck) string {
	switch {
	case l.Actual < l.P33:
		return "unlucky"
	case l.Actual > l.P67:
		return "lucky"
	}
	return "average"
}

// GetBiggestSwings lists the n actions whose outcome differed most from
// what was expected.
func (s *AnalysisService) GetBiggestSwings(ctx context.Context, location string, n int) (string, error) {
	report, err := s.report(ctx, location)
	if err != nil {
		return "", fmt.Errorf("error fetching report: %w", err)
	}

	swings := BiggestSwings(report.Actions, n)
	var sb strings.Builder
	sb.WriteString("📈 *Biggest swings*\n\n")
	if len(swings) == 0 {
		sb.WriteString("No rolls to report.")
		return sb.String(), nil
	}
	for _, a := range swings {
		sb.WriteString(fmt.Sprintf("T%d %s\n", a.Turn, md(a.Description)))
		sb.WriteString(fmt.Sprintf("   %+.3f (expected %+.3f)\n", a.Value, a.Expected))
	}
	return sb.String(), nil
}

// BiggestSwings sorts by the absolute difference between realized and
// expected value. Ties keep replay order.
func BiggestSwings(actions []models.ActionReport, n int) []models.ActionReport {
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(a, b models.ActionReport) int {
		return cmp.Compare(math.Abs(b.Delta), math.Abs(a.Delta))
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// GetPlayerRolls lists the rolls of the player whose name best matches
// name.
func (s *AnalysisService) GetPlayerRolls(ctx context.Context, location, name string) (string, error) {
	report, err := s.report(ctx, location)
	if err != nil {
		return "", fmt.Errorf("error fetching report: %w", err)
	}

	player, ok := MatchPlayer(report.Actions, name)
	if !ok {
		return fmt.Sprintf("🔍 No player found matching '%s'.", md(name)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n", md(player)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	total, expected := 0.0, 0.0
	for _, a := range report.Actions {
		if a.Player != player {
			continue
		}
		sb.WriteString(fmt.Sprintf("T%d %s: %+.3f\n", a.Turn, md(a.ShortDescription), a.Value))
		total += a.Value
		expected += a.Expected
	}
	sb.WriteString(fmt.Sprintf("\nTotal %+.3f, expected %+.3f", total, expected))
	return sb.String(), nil
}

// MatchPlayer finds the player name closest to query by edit distance.
// Matches below 70% similarity are rejected.
func MatchPlayer(actions []models.ActionReport, query string) (string, bool) {
	const threshold = 0.7
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", false
	}

	var names []string
	seen := map[string]bool{}
	for _, a := range actions {
		if a.Player != "" && !seen[a.Player] {
			seen[a.Player] = true
			names = append(names, a.Player)
		}
	}

	best, bestScore := "", threshold
	for _, player := range names {
		name := strings.ToLower(player)
		distance := fuzzy.LevenshteinDistance(query, name)
		similarity := 1 - float64(distance)/float64(max(len(query), len(name)))
		if similarity > bestScore {
			best, bestScore = player, similarity
		}
	}
	if best != "" {
		return best, true
	}

	// Fall back to a subsequence match so "griff" finds "Griff Oberwald".
	for _, player := range names {
		if fuzzy.MatchFold(query, player) {
			return player, true
		}
	}
	slog.Debug("No player matched", "query", query)
	return "", false
}

func (s *AnalysisService) GetUnknowns(ctx context.Context, location string) (string, error) {
	report, err := s.report(ctx, location)
	if err != nil {
		return "", fmt.Errorf("error fetching report: %w", err)
	}
	if len(report.Unknown) == 0 {
		return "Every roll in this replay was valued.", nil
	}
	var sb strings.Builder
	sb.WriteString("❓ *Rolls not valued*\n\n")
	for _, u := range report.Unknown {
		sb.WriteString(fmt.Sprintf("%s: %d\n", md(u.Name), u.Count))
	}
	return sb.String(), nil
}

func (s *AnalysisService) GetReplays() string {
	locations := s.repo.Locations()
	if len(locations) == 0 {
		return "No replays analyzed yet."
	}
	var sb strings.Builder
	sb.WriteString("📂 *Analyzed replays*\n\n")
	for _, loc := range locations {
		report, _ := s.repo.GetReport(loc)
		g := report.Game
		sb.WriteString(fmt.Sprintf("%s: %s %d - %d %s\n", md(loc), md(g.Home.Team), g.Home.Score, g.Away.Score, md(g.Away.Team)))
	}
	return sb.String()
}
