package rolls

import (
	"fmt"
	"strings"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/replay"
)

// Kickoff is the 2D6 kickoff table roll.
type Kickoff struct {
	Base
	KickingTeam replay.Side
}

func (k *Kickoff) Name() string { return "Kickoff" }

func (k *Kickoff) Event() string {
	return bb2.KickoffEvent(sum(k.Dice))
}

func (k *Kickoff) Description() string {
	return fmt.Sprintf("Kickoff: %s", k.Event())
}

func (k *Kickoff) ShortDescription() string { return k.Description() }

func (k *Kickoff) Ignore() bool { return k.ignoreRoll() }

func (k *Kickoff) conditions() []condition { return []condition{isKickoffRoll} }

func (k *Kickoff) Value(dice []int, _ bool) dist.Distribution {
	return dist.Single(strings.ReplaceAll(bb2.KickoffEvent(sum(dice)), " ", ""), 0)
}

// kickoffScore rates a kickoff result for the receiving team: 1 helps,
// 0 hurts, and the rest are a coin flip.
func kickoffScore(total int) float64 {
	switch total {
	case 4, 5:
		return 0
	case 9, 10:
		return 1
	}
	return 0.5
}

func (k *Kickoff) Improbability() float64 {
	if len(k.Dice) < 2 {
		return 0
	}
	pass := 0.0
	for first := 1; first <= 6; first++ {
		for second := 1; second <= 6; second++ {
			pass += kickoffScore(first + second)
		}
	}
	passChance := pass / 36
	switch kickoffScore(sum(k.Dice)) {
	case 0:
		return -passChance
	case 1:
		return 1 - passChance
	}
	return 0
}

func (k *Kickoff) outcomes() dist.Distribution {
	counts := map[int]int{}
	for first := 1; first <= 6; first++ {
		for second := 1; second <= 6; second++ {
			counts[first+second]++
		}
	}
	outcomes := make([]dist.Weighted, 0, 11)
	for total := 2; total <= 12; total++ {
		outcomes = append(outcomes, dist.Weighted{
			Name:   fmt.Sprint(total),
			Weight: float64(counts[total]),
			Value:  k.Value([]int{total}, true),
		})
	}
	return dist.Simple("Kickoff", outcomes)
}
