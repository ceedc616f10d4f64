package replay

import (
	"iter"

	"github.com/cpennington/dicedornot/internal/bb2"
)

// SubStep orders the parts of a raw step.
type SubStep int

const (
	SubStepSetupAction SubStep = iota
	SubStepKickoff
	SubStepBoardAction
	SubStepEndTurn
	SubStepBoardState
)

// SetupTurn is the turn index of activations that happen during a kickoff.
const SetupTurn = -1

// Position points at one moment of the replay: either a node of the
// structured timeline or a part of a raw step the builder did not consume.
type Position interface {
	position()
}

type GameStart struct{}

type DriveStart struct {
	Drive int
}

type WakeupPosition struct {
	Drive int
	Side  Side
	Index int
	Roll  *WakeupRoll
}

type SetupPosition struct {
	Drive      int
	Side       Side
	Index      int
	Action     *SetupAction
	Checkpoint *Checkpoint
}

type KickoffTargetPosition struct {
	Drive  int
	Target Cell
}

type KickoffScatterPosition struct {
	Drive    int
	Scatters []Cell
}

type KickoffEventPosition struct {
	Drive int
	Event *KickoffEvent
}

type KickoffLandingPosition struct {
	Drive int
}

type ActionStepPosition struct {
	Drive      int
	Turn       int
	Activation int
	Index      int
	Step       *ActionStep
}

// RawPosition identifies a raw step left over by the builder. Unhandled is
// the index into Replay.Unhandled and Index the index into the input.
type RawPosition struct {
	Unhandled int
	Index     int
	SubStep   SubStep
	Step      *bb2.Step
}

type RawSetup struct {
	RawPosition
	Setup *bb2.SetUpAction
}

type RawKickoff struct {
	RawPosition
	Kickoff *bb2.KickOffTable
}

type RawKickoffMessage struct {
	RawPosition
	Kickoff *bb2.KickOffTable
	Message *bb2.KickOffMessage
}

type RawActionResult struct {
	RawPosition
	ActionIndex int
	Action      *bb2.BoardAction
	ResultIndex int
	Result      *bb2.ActionResult
}

type RawEndTurn struct {
	RawPosition
	EndTurn *bb2.EndTurn
}

type RawBoardState struct {
	RawPosition
	Board *bb2.BoardState
}

func (GameStart) position()              {}
func (DriveStart) position()             {}
func (WakeupPosition) position()         {}
func (SetupPosition) position()          {}
func (KickoffTargetPosition) position()  {}
func (KickoffScatterPosition) position() {}
func (KickoffEventPosition) position()   {}
func (KickoffLandingPosition) position() {}
func (ActionStepPosition) position()     {}
func (RawSetup) position()               {}
func (RawKickoff) position()             {}
func (RawKickoffMessage) position()      {}
func (RawActionResult) position()        {}
func (RawEndTurn) position()             {}
func (RawBoardState) position()          {}

// Positions returns the linear timeline of the replay. The slice is built
// on first use and shared afterwards; callers must not modify it.
func (r *Replay) Positions() []Position {
	if r.positions == nil {
		r.positions = make([]Position, 0, len(r.Steps)*2)
		for p := range r.Walk() {
			r.positions = append(r.positions, p)
		}
	}
	return r.positions
}

// Walk yields the positions of the replay in order without caching them.
func (r *Replay) Walk() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if !yield(GameStart{}) {
			return
		}
		for i, drive := range r.Drives {
			if !r.walkDrive(i, drive, yield) {
				return
			}
		}
		for i, is := range r.Unhandled {
			if !walkRaw(i, is, yield) {
				return
			}
		}
	}
}

func (r *Replay) walkDrive(idx int, drive *Drive, yield func(Position) bool) bool {
	if !yield(DriveStart{Drive: idx}) {
		return false
	}
	order := []Side{drive.KickingTeam, drive.KickingTeam.Other()}
	for _, side := range order {
		wakeups := drive.Wakeups.Get(side)
		for i := range wakeups {
			if !yield(WakeupPosition{Drive: idx, Side: side, Index: i, Roll: &wakeups[i]}) {
				return false
			}
		}
	}
	for _, side := range order {
		setups := drive.Setups.Get(side)
		for i := range setups {
			pos := SetupPosition{Drive: idx, Side: side, Index: i, Action: &setups[i], Checkpoint: setups[i].Checkpoint}
			if !yield(pos) {
				return false
			}
		}
	}
	if !yield(KickoffTargetPosition{Drive: idx, Target: drive.Kickoff.Target}) {
		return false
	}
	if !yield(KickoffScatterPosition{Drive: idx, Scatters: drive.Kickoff.Scatters}) {
		return false
	}
	if !yield(KickoffEventPosition{Drive: idx, Event: drive.Kickoff.Event}) {
		return false
	}
	if !yield(KickoffLandingPosition{Drive: idx}) {
		return false
	}
	for t, turn := range drive.Turns {
		for a, activation := range turn.Activations {
			for s := range activation.ActionSteps {
				pos := ActionStepPosition{Drive: idx, Turn: t, Activation: a, Index: s, Step: &activation.ActionSteps[s]}
				if !yield(pos) {
					return false
				}
			}
		}
	}
	return true
}

func walkRaw(idx int, is IndexedStep, yield func(Position) bool) bool {
	step := is.Step
	raw := func(sub SubStep) RawPosition {
		return RawPosition{Unhandled: idx, Index: is.Index, SubStep: sub, Step: step}
	}

	if setup := step.RulesEventSetUpAction; setup.Present {
		if !yield(RawSetup{RawPosition: raw(SubStepSetupAction), Setup: setup.Value}) {
			return false
		}
	}
	if table := step.RulesEventKickOffTable.Value; table != nil {
		if !yield(RawKickoff{RawPosition: raw(SubStepKickoff), Kickoff: table}) {
			return false
		}
		for m := range table.EventResults.Items {
			pos := RawKickoffMessage{RawPosition: raw(SubStepKickoff), Kickoff: table, Message: &table.EventResults.Items[m]}
			if !yield(pos) {
				return false
			}
		}
	}
	for a := range step.RulesEventBoardAction {
		action := &step.RulesEventBoardAction[a]
		for r := range action.Results.Items {
			pos := RawActionResult{
				RawPosition: raw(SubStepBoardAction),
				ActionIndex: a,
				Action:      action,
				ResultIndex: r,
				Result:      &action.Results.Items[r],
			}
			if !yield(pos) {
				return false
			}
		}
	}
	if end := step.RulesEventEndTurn.Value; end != nil {
		if !yield(RawEndTurn{RawPosition: raw(SubStepEndTurn), EndTurn: end}) {
			return false
		}
	}
	if board := step.BoardState; board.Present {
		if !yield(RawBoardState{RawPosition: raw(SubStepBoardState), Board: board.Value}) {
			return false
		}
	}
	return true
}
