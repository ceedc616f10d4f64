// Package replay turns the raw replay steps into a structured timeline of
// drives, turns and activations.
package replay

import (
	"time"

	"github.com/cpennington/dicedornot/internal/bb2"
)

type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// SideOf converts a board state team index.
func SideOf(team int) Side {
	if team == bb2.HomeSide {
		return Home
	}
	return Away
}

// ByTeam holds one value per side.
type ByTeam[T any] struct {
	Home T
	Away T
}

func (b *ByTeam[T]) Get(s Side) T {
	if s == Home {
		return b.Home
	}
	return b.Away
}

func (b *ByTeam[T]) Set(s Side, v T) {
	if s == Home {
		b.Home = v
	} else {
		b.Away = v
	}
}

type Cell = bb2.Cell

// OffPitch marks a cell that is not on the board.
var OffPitch = Cell{X: -1, Y: -1}

type PlayerID struct {
	Number int
	Side   Side
}

func NewPlayerID(number int) PlayerID {
	return PlayerID{Number: number, Side: SideOf(bb2.PlayerSide(number))}
}

type Stats struct {
	MA int
	ST int
	AG int
	AV int
}

type Player struct {
	ID     PlayerID
	Name   string
	Type   int
	Skills []bb2.Skill
	Stats  Stats
	Value  int
}

type Team struct {
	Name        string
	Coach       string
	Race        int
	Logo        string
	Players     map[int]*Player
	Mercenaries map[int]*Player
}

// PlayerState is where a player was and what they could do at a checkpoint.
type PlayerState struct {
	UsedSkills []int
	CanAct     bool
	Status     bb2.Status
	Disabled   bool
	Blitzer    bool
	Situation  bb2.Situation
	Casualties []int
	Cell       Cell
}

// Checkpoint is an immutable snapshot of every player's state. Checkpoints
// are shared by reference and replaced, never modified, when the next board
// state arrives.
type Checkpoint struct {
	Players map[int]PlayerState
}

// At returns the id of the player standing on cell.
func (c *Checkpoint) At(cell Cell) (int, bool) {
	if c == nil {
		return 0, false
	}
	found, ok := 0, false
	for id, ps := range c.Players {
		if ps.Cell == cell && (!ok || id < found) {
			found, ok = id, true
		}
	}
	return found, ok
}

type Roll struct {
	Dice  []int
	Total int
}

type Modifier struct {
	Cell  Cell
	Skill bb2.Skill
	Type  int
	Value int
}

type DiceRoll struct {
	Dice      []int
	Modifiers []Modifier
	Target    int
	PileOn    *DiceRoll
}

// Damage gathers the armor, injury and casualty rolls applied to a player by
// one TakeDamage action.
type Damage struct {
	Player       PlayerID
	Armor        *DiceRoll
	Injury       *DiceRoll
	Casualty     *DiceRoll
	Regeneration *DiceRoll
	RaiseDead    bool
}

type KickoffEvent struct {
	Dice      []int
	Cancelled bool
}

type Kickoff struct {
	Event    *KickoffEvent
	Target   Cell
	Scatters []Cell
	Damages  []Damage
}

// SetupAction is one placement during setup. Moves maps player ids to
// their new cells; a substitution moves two players.
type SetupAction struct {
	Checkpoint *Checkpoint
	Side       Side
	Moves      map[int]Cell
}

type WakeupRoll struct {
	Player PlayerID
	Roll   DiceRoll
}

type Drive struct {
	Checkpoint   *Checkpoint
	KickingTeam  Side
	Wakeups      ByTeam[[]WakeupRoll]
	Setups       ByTeam[[]SetupAction]
	Kickoff      Kickoff
	Turns        []*Turn
	InitialScore ByTeam[int]
	FinalScore   ByTeam[int]
}

type Turn struct {
	Number      int
	Side        Side
	Checkpoint  *Checkpoint
	Activations []*Activation
}

type Activation struct {
	Player      PlayerID
	Checkpoint  *Checkpoint
	ActionSteps []ActionStep
}

// ActionStep is one resolved step inside an activation.
type ActionStep struct {
	Damage *Damage
}

type Metadata struct {
	Filename   string
	URL        string
	DatePlayed time.Time
	League     string
}

type Stadium struct {
	Name        string
	Type        string
	Enhancement string
}

// Halt records why building stopped before the end of the step list.
type Halt struct {
	Reason string
	Step   int
}

// IndexedStep is a raw step together with its position in the input.
type IndexedStep struct {
	Index int
	Step  *bb2.Step
}

// Replay is the structured result of Build. It must not be modified after
// Build returns.
type Replay struct {
	Teams              ByTeam[*Team]
	Stadium            Stadium
	Metadata           Metadata
	Drives             []*Drive
	FinalScore         ByTeam[int]
	Fans               ByTeam[Roll]
	InitialWeather     string
	CoinFlipWinner     Side
	InitialKickingTeam Side
	GameLength         int
	Checkpoint         *Checkpoint
	Steps              []*bb2.Step
	Unhandled          []IndexedStep
	Halt               *Halt

	positions []Position
}

// Player looks a player up on either roster, mercenaries included.
func (r *Replay) Player(id int) *Player {
	team := r.Teams.Get(SideOf(bb2.PlayerSide(id)))
	if team == nil {
		return nil
	}
	if p, ok := team.Players[id]; ok {
		return p
	}
	return team.Mercenaries[id]
}

// Period returns the half a game turn belongs to; overtime is period 3.
func Period(turn int) int {
	return (turn-1)/8 + 1
}
