package rolls

import (
	"fmt"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
)

type Injury struct {
	Base
	CanPileOn bool
	PileOn    bool
	PilingOn  *game.Player
	Foul      bool
	Fouler    *game.Player
	Modifier  int
}

func (in *Injury) Name() string {
	switch {
	case in.CanPileOn:
		return "Injury (Can Pile On)"
	case in.PileOn:
		return "Injury (Piled On)"
	}
	return "Injury"
}

func (in *Injury) Description() string {
	return in.describe(in.Name(), joinDice(in.Dice, "+"))
}

func (in *Injury) ShortDescription() string {
	return in.describeShort(in.Name(), fmt.Sprint(sum(in.Dice)))
}

func (in *Injury) Ignore() bool { return in.ignoreRoll() }

func (in *Injury) handledSkills() []bb2.Skill {
	return []bb2.Skill{bb2.SkillMightyBlow, bb2.SkillDirtyPlayer, bb2.SkillStunty}
}

func (in *Injury) conditions() []condition { return []condition{reroll} }

func (in *Injury) stuntyBonus() int {
	if in.Player.HasSkill(bb2.SkillStunty) {
		return 1
	}
	return 0
}

func (in *Injury) injuryValue(total int) dist.Distribution {
	total += in.stuntyBonus()
	switch {
	case total <= 7:
		// Stunned costs nothing beyond the broken armor.
		return dist.Single("No Injury", 0)
	case total <= 9:
		return koValue(&in.Base, in.Player)
	}
	return casValue(&in.Base, in.Player)
}

func (in *Injury) Value(dice []int, expected bool) dist.Distribution {
	if in.CanPileOn {
		return dist.Single("Pile On Decision Pending", 0)
	}
	if len(dice) < 2 {
		return dist.Single(in.Name(), 0)
	}
	if next, ok := nextAction(&in.Base).(*Injury); ok && next.IsReroll {
		return rerollValue(in.Name())
	}
	v := in.injuryValue(dice[0] + dice[1] + in.Modifier)
	if in.PileOn && in.PilingOn != nil {
		v = dist.Subtract(v, onTeamValue(&in.Base, in.PilingOn))
	}
	if in.Foul && in.Fouler != nil && dice[0] == dice[1] {
		v = dist.Add(v, dist.Named("Sent Off", casValue(&in.Base, in.Fouler)), turnoverValue(&in.Base))
	}
	return v
}

func (in *Injury) Improbability() float64 {
	if len(in.Dice) < 2 {
		return 0
	}
	bonus := in.stuntyBonus()
	pass := 0
	for first := 1; first <= 6; first++ {
		for second := 1; second <= 6; second++ {
			if first+second+bonus > 7 {
				pass++
			}
		}
	}
	return boolFloat(in.Dice[0]+in.Dice[1]+bonus > 7) - float64(pass)/36
}

// outcomes groups the 36 two-dice combinations by the injury they cause.
func (in *Injury) outcomes() dist.Distribution {
	type group struct {
		key    string
		lo, hi int
		count  int
		value  dist.Distribution
	}
	var groups []*group
	index := map[string]*group{}
	for first := 1; first <= 6; first++ {
		for second := 1; second <= 6; second++ {
			v := in.Value([]int{first, second}, true)
			key := fmt.Sprintf("%s/%g", v.Name(), v.ExpectedValue())
			total := first + second
			g, ok := index[key]
			if !ok {
				g = &group{key: key, lo: total, hi: total, value: v}
				index[key] = g
				groups = append(groups, g)
			}
			g.lo, g.hi = min(g.lo, total), max(g.hi, total)
			g.count++
		}
	}
	outcomes := make([]dist.Weighted, 0, len(groups))
	for _, g := range groups {
		name := fmt.Sprint(g.lo)
		if g.lo != g.hi {
			name = fmt.Sprintf("%d-%d", g.lo, g.hi)
		}
		outcomes = append(outcomes, dist.Weighted{Name: name, Weight: float64(g.count), Value: g.value})
	}
	return dist.Simple(in.Name(), outcomes)
}

// Casualty is the D68 casualty roll. Its cost is already carried by the
// injury roll that led to it.
type Casualty struct {
	Base
	Foul bool
}

func (c *Casualty) Name() string { return "Casualty" }

func (c *Casualty) Result() string {
	if len(c.Dice) == 0 {
		return ""
	}
	return bb2.CasualtyName(c.Dice[0])
}

func (c *Casualty) Description() string {
	return c.describe("Casualty", fmt.Sprintf("%s (%s)", joinDice(c.Dice, ""), c.Result()))
}

func (c *Casualty) ShortDescription() string {
	return c.describeShort("Casualty", c.Result())
}

func (c *Casualty) Ignore() bool { return c.ignoreRoll() }

func (c *Casualty) handledSkills() []bb2.Skill {
	return []bb2.Skill{bb2.SkillNurglesRot, bb2.SkillDecay}
}

func (c *Casualty) Value([]int, bool) dist.Distribution {
	return dist.Single("CAS", 0)
}

func (c *Casualty) outcomes() dist.Distribution {
	outcomes := make([]dist.Weighted, 0, 48)
	for kind := 1; kind <= 6; kind++ {
		for sub := 1; sub <= 8; sub++ {
			outcomes = append(outcomes, dist.Weighted{
				Name:   fmt.Sprintf("%d%d", kind, sub),
				Weight: 1,
				Value:  c.Value(nil, true),
			})
		}
	}
	return dist.Simple("Casualty", outcomes)
}
