package rolls

import (
	"fmt"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
)

// Move is a player moving without a roll. Consecutive moves by one player
// are folded together by Link.
type Move struct {
	Base
	From bb2.Cell
	To   bb2.Cell
}

func (m *Move) Name() string { return "Move" }

func (m *Move) path() string {
	return fmt.Sprintf("(%d, %d) → (%d, %d)", m.From.X, m.From.Y, m.To.X, m.To.Y)
}

func (m *Move) Description() string {
	return fmt.Sprintf("Move: [%s] %s - %s", m.Player.Team.ShortName(), m.Player.Name, m.path())
}

func (m *Move) ShortDescription() string {
	return fmt.Sprintf("Move: %s - %s", m.Player.Name, m.path())
}

func (m *Move) Ignore() bool { return false }

func (m *Move) handledSkills() []bb2.Skill { return []bb2.Skill{bb2.SkillJumpUp} }

func (m *Move) conditions() []condition { return []condition{sameTeamMove} }

func (m *Move) Value([]int, bool) dist.Distribution {
	return ballDelta(m.Player, m.From, m.To, "Move")
}

func (m *Move) outcomes() dist.Distribution {
	values := []dist.Distribution{m.Value(nil, true)}
	for _, d := range m.Dependents {
		values = append(values, d.Value(d.Common().Dice, false))
	}
	return dist.Add(values...)
}

// Setup is the placement of a team before a kickoff. Later placements of
// the same setup become its dependents.
type Setup struct {
	Base
}

func (s *Setup) Name() string             { return "Setup" }
func (s *Setup) Description() string      { return "Setup" }
func (s *Setup) ShortDescription() string { return "Setup" }
func (s *Setup) Ignore() bool             { return false }
func (s *Setup) conditions() []condition  { return []condition{setupPlacement} }

func (s *Setup) Value([]int, bool) dist.Distribution { return dist.Single("No Value", 0) }

func (s *Setup) outcomes() dist.Distribution { return dist.Single("No Value", 0) }

// Choice is a decision recorded as a roll that carries no value of its own,
// such as a push direction or a foul penalty.
type Choice struct {
	Base
}

func (c *Choice) Name() string { return c.RollType.String() }

func (c *Choice) Description() string      { return c.describe(c.Name(), "") }
func (c *Choice) ShortDescription() string { return c.describeShort(c.Name(), "") }
func (c *Choice) Ignore() bool             { return true }

func (c *Choice) handledSkills() []bb2.Skill {
	switch c.RollType {
	case bb2.RollPush:
		return []bb2.Skill{bb2.SkillSideStep}
	case bb2.RollFollowUp:
		return []bb2.Skill{bb2.SkillFrenzy}
	}
	return nil
}

func (c *Choice) Value([]int, bool) dist.Distribution { return dist.Single("No Value", 0) }

func (c *Choice) outcomes() dist.Distribution { return dist.Single("No Value", 0) }

// Unknown stands in for a roll the model does not value yet. It is kept so
// reports can list what was skipped.
type Unknown struct {
	Base
	Label string
	Step  *bb2.Step
}

func (u *Unknown) Name() string             { return u.Label }
func (u *Unknown) Description() string      { return u.describe(u.Label, joinDice(u.Dice, ", ")) }
func (u *Unknown) ShortDescription() string { return u.describeShort(u.Label, joinDice(u.Dice, ", ")) }
func (u *Unknown) Ignore() bool             { return true }

func (u *Unknown) Value([]int, bool) dist.Distribution { return dist.Single(u.Label, 0) }

func (u *Unknown) outcomes() dist.Distribution { return dist.Single(u.Label, 0) }
