// Package analysis runs a decoded replay through the builder, the roll
// model and the linker, and summarizes the result as a report.
package analysis

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/models"
	"github.com/cpennington/dicedornot/internal/replay"
	"github.com/cpennington/dicedornot/internal/rolls"
)

type Options struct {
	Decay       float64
	Simulations int
	Seed        int64
}

// Analysis holds everything built from one replay.
type Analysis struct {
	Replay *replay.Replay
	// Actions is every action constructed from the timeline, ignored ones
	// included, in position order.
	Actions []rolls.Action
	// Linked is the primaries left after linking.
	Linked []rolls.Action
}

// Analyze builds the replay and values every roll in it. A builder halt is
// not an error: the actions before it are still analyzed.
func Analyze(raw *bb2.Replay, opts Options) (*Analysis, error) {
	r, err := replay.Build(raw)
	if err != nil {
		return nil, fmt.Errorf("error building replay: %w", err)
	}
	if r.Halt != nil {
		slog.Warn("Replay building halted", "reason", r.Halt.Reason, "step", r.Halt.Step, "unhandled", len(r.Unhandled))
	}

	ctx := rolls.NewContext(rolls.Config{Decay: opts.Decay})
	var actions []rolls.Action
	for idx, pos := range r.Positions() {
		a, err := rolls.FromPosition(ctx, r, idx, pos)
		if err != nil {
			return nil, fmt.Errorf("error reading position %d: %w", idx, err)
		}
		if a != nil {
			actions = append(actions, a)
		}
	}

	linked := rolls.Link(actions)
	slog.Debug("Linked actions", "actions", len(actions), "primaries", len(linked))
	return &Analysis{Replay: r, Actions: actions, Linked: linked}, nil
}

// Process analyzes a decoded document and reports on it.
func Process(doc *bb2.Document, location string, opts Options) (*models.Report, error) {
	a, err := Analyze(&doc.Replay, opts)
	if err != nil {
		return nil, err
	}
	report := a.Report(location, opts)
	slog.Info("Analyzed replay", "location", location, "actions", len(report.Actions), "unknown", len(report.Unknown))
	return report, nil
}

// Report summarizes the analysis.
func (a *Analysis) Report(location string, opts Options) *models.Report {
	report := &models.Report{
		Location:    location,
		AnalyzedAt:  time.Now(),
		Game:        gameDetails(a.Replay),
		Actions:     make([]models.ActionReport, 0, len(a.Linked)),
		Unknown:     unknownCounts(a.Actions),
		Activations: ActivationValues(a.Linked),
	}
	for _, act := range a.Linked {
		report.Actions = append(report.Actions, actionReport(act))
	}
	if h := a.Replay.Halt; h != nil {
		report.Halt = &models.HaltReport{Reason: h.Reason, Step: h.Step, RemainingSteps: len(a.Replay.Steps) - h.Step}
	}
	if opts.Simulations > 0 {
		report.Luck = Simulate(a.Linked, opts.Simulations, opts.Seed)
	}
	return report
}

func gameDetails(r *replay.Replay) models.GameDetails {
	team := func(side replay.Side) models.TeamResult {
		res := models.TeamResult{Score: r.FinalScore.Get(side)}
		if t := r.Teams.Get(side); t != nil {
			res.Coach, res.Team, res.Race = t.Coach, t.Name, t.Race
		}
		return res
	}
	return models.GameDetails{
		Stadium: r.Stadium.Name,
		League:  r.Metadata.League,
		Date:    r.Metadata.DatePlayed,
		Weather: r.InitialWeather,
		Home:    team(replay.Home),
		Away:    team(replay.Away),
	}
}

// teamName is the team an action counts for: its player's, or the team
// taking its turn.
func teamName(act rolls.Action) string {
	b := act.Common()
	if b.Player != nil && b.Player.Team != nil {
		return b.Player.Team.Name
	}
	if b.State == nil {
		return ""
	}
	if t := b.State.ActiveTeam(); t != nil {
		return t.Name
	}
	return ""
}

func actionReport(act rolls.Action) models.ActionReport {
	b := act.Common()
	outcomes := rolls.Outcomes(act)
	actual := rolls.ValueWithDependents(act)
	expected := outcomes.ExpectedValue()

	ar := models.ActionReport{
		RollIndex:        b.RollIndex,
		StartIndex:       b.StartIndex,
		EndIndex:         b.EndIndex,
		Kind:             b.Kind.String(),
		Team:             teamName(act),
		Description:      rolls.JointDescription(act),
		ShortDescription: act.ShortDescription(),
		Dice:             b.Dice,
		Value:            actual.ExpectedValue(),
		Expected:         expected,
		Delta:            actual.ExpectedValue() - expected,
		Improbability:    rolls.TotalImprobability(act),
		ValueDescription: fmt.Sprintf("%s %s", dist.Describe(actual), dist.Describe(outcomes)),
	}
	if b.State != nil {
		ar.Turn = b.Turn()
	}
	if b.Player != nil {
		ar.Player = b.Player.Name
		ar.Skills = b.Player.SkillNames()
	}
	for _, e := range dist.Breakdown(outcomes) {
		ar.Outcomes = append(ar.Outcomes, models.Outcome{Name: e.Name, Value: e.Value, Weight: e.Weight})
	}
	for _, s := range b.Unhandled {
		ar.Unhandled = append(ar.Unhandled, s.String())
	}
	for _, d := range b.Dependents {
		for _, s := range d.Common().Unhandled {
			ar.Unhandled = append(ar.Unhandled, s.String())
		}
	}
	return ar
}

func unknownCounts(actions []rolls.Action) []models.UnknownCount {
	counts := map[string]int{}
	for _, a := range actions {
		if u, ok := a.(*rolls.Unknown); ok {
			counts[u.Label]++
		}
	}
	out := make([]models.UnknownCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.UnknownCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b models.UnknownCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ActivationValues compares what each player's activation produced with
// what the player was worth going into it. A later action of the same
// player in the same turn replaces the earlier one.
func ActivationValues(linked []rolls.Action) []models.ActivationValue {
	var out []models.ActivationValue
	index := map[string]int{}
	for _, act := range linked {
		b := act.Common()
		if b.Player == nil || b.State == nil {
			continue
		}
		v := models.ActivationValue{
			Key:      fmt.Sprintf("%d-%s", b.Turn(), b.Player.Name),
			Turn:     b.Turn(),
			Player:   b.Player.Name,
			Actual:   rolls.ValueWithDependents(act).ExpectedValue(),
			Expected: rolls.PlayerShare(act),
		}
		if i, ok := index[v.Key]; ok {
			out[i] = v
			continue
		}
		index[v.Key] = len(out)
		out = append(out, v)
	}
	return out
}
