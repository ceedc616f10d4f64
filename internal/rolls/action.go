// Package rolls models every dice roll and player action found in a replay
// and values each of them as a distribution over the game's outcome.
package rolls

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
)

// Kind tags the variant of an Action.
type Kind int

const (
	KindUnknown Kind = iota
	KindMove
	KindSetup
	KindChoice
	KindBlock
	KindGFI
	KindDodge
	KindArmor
	KindStandUp
	KindPickup
	KindCatch
	KindPass
	KindInterception
	KindWakeUp
	KindBoneHead
	KindReallyStupid
	KindWildAnimal
	KindLanding
	KindRegeneration
	KindDauntless
	KindJumpUp
	KindLeap
	KindFoulAppearance
	KindTakeRoot
	KindFireball
	KindLightningBolt
	KindThrowTeammate
	KindPitchInvasion
	KindInjury
	KindCasualty
	KindKickoff
)

var kindNames = map[Kind]string{
	KindUnknown:        "Unknown",
	KindMove:           "Move",
	KindSetup:          "Setup",
	KindChoice:         "Choice",
	KindBlock:          "Block",
	KindGFI:            "GFI",
	KindDodge:          "Dodge",
	KindArmor:          "Armor",
	KindStandUp:        "Stand Up",
	KindPickup:         "Pickup",
	KindCatch:          "Catch",
	KindPass:           "Pass",
	KindInterception:   "Interception",
	KindWakeUp:         "Wake Up",
	KindBoneHead:       "Bone Head",
	KindReallyStupid:   "Really Stupid",
	KindWildAnimal:     "Wild Animal",
	KindLanding:        "Landing",
	KindRegeneration:   "Regeneration",
	KindDauntless:      "Dauntless",
	KindJumpUp:         "Jump-Up",
	KindLeap:           "Leap",
	KindFoulAppearance: "Foul Appearance",
	KindTakeRoot:       "Take Root",
	KindFireball:       "Fireball",
	KindLightningBolt:  "Lightning Bolt",
	KindThrowTeammate:  "Throw Teammate",
	KindPitchInvasion:  "Pitch Invasion",
	KindInjury:         "Injury",
	KindCasualty:       "Casualty",
	KindKickoff:        "Kickoff",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind %d", int(k))
}

// EndOfReplay is the EndIndex of the last primary action.
const EndOfReplay = -1

// Action is one valued event of a replay. The set of implementations is
// closed: Move, Setup, Choice, Block, D6, Injury, Casualty, Kickoff and
// Unknown.
type Action interface {
	Common() *Base
	Name() string
	Description() string
	ShortDescription() string
	// Ignore reports whether the action should be dropped before linking.
	Ignore() bool
	// Value is the worth of the action had dice come up. When expected is
	// set, follow-up rolls are included as distributions.
	Value(dice []int, expected bool) dist.Distribution
	Improbability() float64

	outcomes() dist.Distribution
	conditions() []condition
	handledSkills() []bb2.Skill
}

// Dependent is the back-link from a dependent action to its primary.
type Dependent struct {
	Primary Action
	Index   int
}

// Base holds the fields shared by every action.
type Base struct {
	Kind           Kind
	State          *game.State
	Player         *game.Player
	ActionType     bb2.ActionType
	ResultType     bb2.ResultType
	HasResult      bool
	SubResult      bb2.SubResultType
	SkillsInEffect []bb2.SkillInfo
	Unhandled      []bb2.Skill

	StartIndex int
	EndIndex   int
	RollIndex  int
	Dependents []Action
	Dependent  *Dependent
	// Linked is the folded list this action was linked into.
	Linked []Action

	Dice       []int
	RollType   bb2.RollType
	RollStatus bb2.RollStatus
	IsReroll   bool

	ctx *Context
	id  int
}

func (b *Base) Common() *Base { return b }

// Turn is the game turn of the active team when the action happened.
func (b *Base) Turn() int { return b.State.Turn }

func (b *Base) handledSkills() []bb2.Skill { return nil }

func (b *Base) conditions() []condition { return nil }

func (b *Base) Improbability() float64 { return 0 }

// ignoreRoll is the filter every dice roll shares: declined reroll offers
// and results without dice carry no information.
func (b *Base) ignoreRoll() bool {
	return b.RollStatus == bb2.RerollNotTaken || len(b.Dice) == 0
}

func (b *Base) playerLabel() string {
	p := b.Player
	label := fmt.Sprintf("[%s] %s", p.Team.ShortName(), p.Name)
	if len(p.Skills) > 0 {
		label += " (" + strings.Join(p.SkillNames(), ", ") + ")"
	}
	return label
}

func (b *Base) describe(name, dice string) string {
	switch {
	case b.Player != nil && dice != "":
		return fmt.Sprintf("%s: %s - %s", name, b.playerLabel(), dice)
	case b.Player != nil:
		return fmt.Sprintf("%s: %s", name, b.playerLabel())
	case dice != "":
		return fmt.Sprintf("%s: %s", name, dice)
	}
	return name
}

func (b *Base) describeShort(name, dice string) string {
	switch {
	case b.Player != nil && dice != "":
		return fmt.Sprintf("%s: %s - %s", name, b.Player.Name, dice)
	case b.Player != nil:
		return fmt.Sprintf("%s: %s", name, b.Player.Name)
	case dice != "":
		return fmt.Sprintf("%s: %s", name, dice)
	}
	return name
}

// checkSkills records the skills in effect that the action does not model.
func (b *Base) checkSkills(handled []bb2.Skill) {
	for _, s := range b.SkillsInEffect {
		if slices.Contains(handled, s.SkillID) || slices.Contains(b.Unhandled, s.SkillID) {
			continue
		}
		b.Unhandled = append(b.Unhandled, s.SkillID)
		slog.Warn("Skill in effect is not modeled", "kind", b.Kind, "skill", s.SkillID, "player", s.PlayerID, "step", b.StartIndex)
	}
}

func joinDice(dice []int, sep string) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, sep)
}

func sum(dice []int) int {
	total := 0
	for _, d := range dice {
		total += d
	}
	return total
}

// Outcomes returns the memoized distribution of everything the action could
// have produced, dependents included.
func Outcomes(a Action) dist.Distribution {
	b := a.Common()
	return b.ctx.cached(memoKey{id: b.id, kind: "outcomes"}, a.outcomes)
}

// ExpectedValue is the mean of Outcomes.
func ExpectedValue(a Action) float64 {
	return Outcomes(a).ExpectedValue()
}

// ActualValue is the value of the dice that were rolled.
func ActualValue(a Action) dist.Distribution {
	v := a.Value(a.Common().Dice, false)
	if v == nil {
		return dist.Single(a.Name(), 0)
	}
	return v
}

// ValueWithDependents adds the actual value of every dependent to the
// action's own.
func ValueWithDependents(a Action) dist.Distribution {
	values := []dist.Distribution{ActualValue(a)}
	for _, d := range a.Common().Dependents {
		values = append(values, ActualValue(d))
	}
	return dist.Add(values...)
}

// TotalImprobability adds the improbability of every dependent.
func TotalImprobability(a Action) float64 {
	total := a.Improbability()
	for _, d := range a.Common().Dependents {
		total += d.Improbability()
	}
	return total
}

// JointDescription describes the action followed by its dependents.
func JointDescription(a Action) string {
	parts := []string{a.Description()}
	for _, d := range a.Common().Dependents {
		parts = append(parts, d.ShortDescription())
	}
	return strings.Join(parts, " → ")
}
