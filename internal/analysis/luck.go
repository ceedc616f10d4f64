package analysis

import (
	"math/rand"

	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/models"
	"github.com/cpennington/dicedornot/internal/rolls"
)

// Simulate replays every action n times with freshly sampled outcomes and
// places each team's realized total among the simulated totals. Teams are
// listed in the order their first action appears.
func Simulate(linked []rolls.Action, n int, seed int64) []models.TeamLuck {
	type team struct {
		actions  []rolls.Action
		actual   float64
		expected float64
	}
	var order []string
	teams := map[string]*team{}
	for _, act := range linked {
		name := teamName(act)
		t, ok := teams[name]
		if !ok {
			t = &team{}
			teams[name] = t
			order = append(order, name)
		}
		t.actions = append(t.actions, act)
		t.actual += rolls.ValueWithDependents(act).ExpectedValue()
		t.expected += rolls.ExpectedValue(act)
	}

	r := rand.New(rand.NewSource(seed))
	out := make([]models.TeamLuck, 0, len(order))
	for _, name := range order {
		t := teams[name]
		samples := make([]dist.Outcome, n)
		for i := range samples {
			total := 0.0
			for _, act := range t.actions {
				total += rolls.Outcomes(act).Sample(r)
			}
			samples[i] = dist.Outcome{Value: total, Weight: 1}
		}
		out = append(out, models.TeamLuck{
			Team:       name,
			Actual:     t.actual,
			Expected:   t.expected,
			P33:        dist.WeightedQuantile(samples, 0.33),
			P50:        dist.WeightedQuantile(samples, 0.5),
			P67:        dist.WeightedQuantile(samples, 0.67),
			Percentile: dist.Rank(samples, t.actual),
		})
	}
	return out
}
