package rolls

import (
	"errors"
	"fmt"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/game"
	"github.com/cpennington/dicedornot/internal/replay"
)

var (
	ErrMissingFouler = errors.New("foul without a fouling player")
	ErrMissingPlayer = errors.New("roll without its player")
	ErrMissingCell   = errors.New("roll without a target cell")
)

// Support says how a roll type is treated.
type Support int

const (
	// Modeled roll types become valued actions.
	Modeled Support = iota
	// Ignored roll types carry nothing worth valuing and are dropped.
	Ignored
	// Unsupported roll types are recognized but not valued yet. They become
	// Unknown actions.
	Unsupported
)

func (s Support) String() string {
	switch s {
	case Modeled:
		return "modeled"
	case Ignored:
		return "ignored"
	}
	return "unsupported"
}

// Classify reports how a roll type is handled. Everything else is
// unsupported, including recognized rolls such as Hypnotic Gaze, Bribe and
// Multiblock that are not valued.
func Classify(rt bb2.RollType) Support {
	switch rt {
	case bb2.RollArmor, bb2.RollBlock, bb2.RollBoneHead, bb2.RollCasualty, bb2.RollCatch,
		bb2.RollDauntless, bb2.RollDodge, bb2.RollFireball, bb2.RollFoulAppearance,
		bb2.RollFoulPenalty, bb2.RollGFI, bb2.RollInjury, bb2.RollInterception, bb2.RollJumpUp,
		bb2.RollLanding, bb2.RollLeap, bb2.RollLightningBolt, bb2.RollPass, bb2.RollPickup,
		bb2.RollPileOnArmor, bb2.RollPileOnInjury, bb2.RollReallyStupid, bb2.RollRegeneration,
		bb2.RollStandUp, bb2.RollTakeRoot, bb2.RollThrowTeammate, bb2.RollWakeUp, bb2.RollWildAnimal:
		return Modeled
	case bb2.RollFans, bb2.RollFollowUp, bb2.RollInaccuratePassScatter, bb2.RollJuggernaut,
		bb2.RollKickoffGust, bb2.RollKickoffScatter, bb2.RollPush, bb2.RollStandFirm,
		bb2.RollThrowIn, bb2.RollTouchBack, bb2.RollWeather, bb2.RollWrestle, bb2.RollKickoffEvent:
		return Ignored
	}
	return Unsupported
}

var d6Kinds = map[bb2.RollType]Kind{
	bb2.RollGFI:            KindGFI,
	bb2.RollDodge:          KindDodge,
	bb2.RollArmor:          KindArmor,
	bb2.RollPileOnArmor:    KindArmor,
	bb2.RollStandUp:        KindStandUp,
	bb2.RollPickup:         KindPickup,
	bb2.RollCatch:          KindCatch,
	bb2.RollPass:           KindPass,
	bb2.RollInterception:   KindInterception,
	bb2.RollWakeUp:         KindWakeUp,
	bb2.RollBoneHead:       KindBoneHead,
	bb2.RollReallyStupid:   KindReallyStupid,
	bb2.RollWildAnimal:     KindWildAnimal,
	bb2.RollLanding:        KindLanding,
	bb2.RollRegeneration:   KindRegeneration,
	bb2.RollDauntless:      KindDauntless,
	bb2.RollJumpUp:         KindJumpUp,
	bb2.RollLeap:           KindLeap,
	bb2.RollFoulAppearance: KindFoulAppearance,
	bb2.RollTakeRoot:       KindTakeRoot,
	bb2.RollFireball:       KindFireball,
	bb2.RollLightningBolt:  KindLightningBolt,
	bb2.RollThrowTeammate:  KindThrowTeammate,
}

// Kinds whose value is about the player the roll is for.
var playerKinds = map[Kind]bool{
	KindBoneHead: true, KindReallyStupid: true, KindFoulAppearance: true, KindArmor: true,
	KindWildAnimal: true, KindDodge: true, KindJumpUp: true, KindLeap: true, KindWakeUp: true,
	KindGFI: true, KindStandUp: true, KindTakeRoot: true, KindLanding: true, KindFireball: true,
	KindLightningBolt: true, KindRegeneration: true,
}

// FromPosition builds the action found at position idx of r's timeline.
// Positions without an action return nil. Errors mean the replay is
// inconsistent and cannot be valued.
func FromPosition(ctx *Context, r *replay.Replay, idx int, pos replay.Position) (Action, error) {
	var (
		a   Action
		err error
	)
	switch p := pos.(type) {
	case replay.SetupPosition:
		if p.Action == nil {
			return nil, nil
		}
		a = &Setup{Base: Base{
			Kind:       KindSetup,
			State:      game.FromCheckpoint(r, p.Checkpoint, p.Side, 0),
			StartIndex: idx,
		}}
	case replay.KickoffEventPosition:
		if p.Event == nil || p.Event.Cancelled || len(p.Event.Dice) < 2 || p.Drive >= len(r.Drives) {
			return nil, nil
		}
		drive := r.Drives[p.Drive]
		a = &Kickoff{
			Base: Base{
				Kind:       KindKickoff,
				State:      game.FromCheckpoint(r, drive.Checkpoint, drive.KickingTeam, 0),
				StartIndex: idx,
				HasResult:  true,
				Dice:       p.Event.Dice,
				RollType:   bb2.RollKickoffEvent,
			},
			KickingTeam: drive.KickingTeam,
		}
	case replay.RawSetup:
		initial := initialBoard(r, p.Index)
		if initial == nil {
			return nil, nil
		}
		a = &Setup{Base: Base{Kind: KindSetup, State: game.FromBoard(initial, p.Step.Board()), StartIndex: idx}}
	case replay.RawKickoff:
		initial := initialBoard(r, p.Index)
		if initial == nil {
			return nil, nil
		}
		final := p.Step.Board()
		if final == nil {
			final = initial
		}
		a = &Kickoff{
			Base: Base{
				Kind:       KindKickoff,
				State:      game.FromBoard(initial, final),
				StartIndex: idx,
				HasResult:  true,
				Dice:       p.Kickoff.ListDice,
				RollType:   bb2.RollKickoffEvent,
			},
			KickingTeam: replay.SideOf(final.KickOffTeam),
		}
	case replay.RawKickoffMessage:
		a, err = fromKickoffMessage(p, idx)
	case replay.RawActionResult:
		initial := initialBoard(r, p.Index)
		if initial == nil {
			return nil, nil
		}
		a, err = fromActionResult(r, initial, p, idx)
	default:
		return nil, nil
	}
	if err != nil || a == nil {
		return nil, err
	}
	b := a.Common()
	ctx.register(b)
	b.checkSkills(a.handledSkills())
	return a, nil
}

// initialBoard is the last board snapshot before step index.
func initialBoard(r *replay.Replay, index int) *bb2.BoardState {
	for i := min(index, len(r.Steps)) - 1; i >= 0; i-- {
		if board := r.Steps[i].Board(); board != nil {
			return board
		}
	}
	return nil
}

func fromKickoffMessage(p replay.RawKickoffMessage, idx int) (Action, error) {
	board := p.Step.Board()
	if board == nil {
		return nil, nil
	}
	state := game.FromBoard(board, board)
	total := sum(p.Kickoff.ListDice)
	invaded := p.Message.MessageData.RulesEventPlayerInvaded.Value
	if total != 12 || invaded == nil {
		return &Unknown{
			Base:  Base{Kind: KindUnknown, State: state, StartIndex: idx},
			Label: bb2.KickoffEvent(total),
			Step:  p.Step,
		}, nil
	}
	player := state.PlayerByID(invaded.PlayerID)
	if player == nil {
		return nil, fmt.Errorf("pitch invasion at step %d: player %d: %w", p.Index, invaded.PlayerID, ErrMissingPlayer)
	}
	fame := 0
	if other := state.Team(player.Team.Side.Other()); other != nil {
		fame = other.Fame
	}
	return &D6{
		Base: Base{
			Kind:       KindPitchInvasion,
			State:      state,
			Player:     player,
			ActionType: bb2.ActionKickoffTarget,
			HasResult:  true,
			StartIndex: idx,
			Dice:       []int{invaded.Die},
			RollType:   bb2.RollKickoffEvent,
		},
		Target:   6,
		Modifier: fame,
		Stunned:  invaded.Stunned == 1,
	}, nil
}

func fromActionResult(r *replay.Replay, initial *bb2.BoardState, p replay.RawActionResult, idx int) (Action, error) {
	action, result := p.Action, p.Result
	final := p.Step.Board()
	if final == nil {
		final = initial
	}
	state := game.FromBoard(initial, final)
	actionType, hasType := action.Type()
	resultType, hasResult := result.Result()

	base := Base{
		State:          state,
		ActionType:     actionType,
		ResultType:     resultType,
		HasResult:      hasResult,
		SubResult:      result.SubResultType,
		SkillsInEffect: result.CoachChoices.ListSkills.Items,
		StartIndex:     idx,
	}
	if action.PlayerID != nil {
		base.Player = state.PlayerByID(*action.PlayerID)
	}

	rt, hasRoll := result.Roll()
	if !hasRoll {
		if hasType {
			return nil, nil
		}
		if base.Player == nil {
			return nil, fmt.Errorf("move at step %d: player %d: %w", p.Index, action.Player(), ErrMissingPlayer)
		}
		to, ok := action.Order.Target()
		if !ok {
			return nil, fmt.Errorf("move at step %d: %w", p.Index, ErrMissingCell)
		}
		base.Kind = KindMove
		return &Move{Base: base, From: action.Order.CellFrom, To: to}, nil
	}

	base.RollType = rt
	base.RollStatus = result.RollStatus
	base.IsReroll = result.RollStatus.IsReroll()
	base.Dice = result.CoachChoices.ListDices

	switch Classify(rt) {
	case Ignored:
		return nil, nil
	case Unsupported:
		base.Kind = KindUnknown
		return &Unknown{Base: base, Label: rt.String(), Step: p.Step}, nil
	}

	switch rt {
	case bb2.RollBlock:
		return blockFromResult(base, p)
	case bb2.RollInjury, bb2.RollPileOnInjury:
		return injuryFromResult(base, p)
	case bb2.RollCasualty:
		base.Kind = KindCasualty
		if n := len(base.Dice) / 2; n > 0 {
			base.Dice = base.Dice[n-1 : n]
		} else {
			base.Dice = nil
		}
		return &Casualty{Base: base, Foul: hasType && actionType == bb2.ActionFoul}, nil
	case bb2.RollFoulPenalty:
		base.Kind = KindChoice
		return &Choice{Base: base}, nil
	}
	return d6FromResult(r, base, p)
}

func blockFromResult(base Base, p replay.RawActionResult) (Action, error) {
	to, ok := p.Action.Order.Target()
	if !ok {
		return nil, fmt.Errorf("block at step %d: %w", p.Index, ErrMissingCell)
	}
	base.Kind = KindBlock
	base.Dice = base.Dice[:len(base.Dice)/2]
	return &Block{
		Base:     base,
		RedDice:  p.Result.Requirement < 0,
		Attacker: base.Player,
		Defender: base.State.PlayerAt(to),
		Blitz:    base.Player != nil && base.Player.Blitzer,
	}, nil
}

// pileOnPlayer returns the player whose Piling On skill the previous result
// of the same action used, when that result has roll type rt.
func pileOnPlayer(state *game.State, p replay.RawActionResult, rt bb2.RollType) (bool, *game.Player, error) {
	if p.ResultIndex == 0 {
		return false, nil, nil
	}
	prev := &p.Action.Results.Items[p.ResultIndex-1]
	if prt, ok := prev.Roll(); !ok || prt != rt {
		return false, nil, nil
	}
	for _, s := range prev.CoachChoices.ListSkills.Items {
		if s.SkillID == bb2.SkillPilingOn {
			if player := state.PlayerByID(s.PlayerID); player != nil {
				return true, player, nil
			}
		}
	}
	return false, nil, fmt.Errorf("pile on at step %d: %w", p.Index, ErrMissingPlayer)
}

func fouler(state *game.State, p replay.RawActionResult) (*game.Player, error) {
	actions := p.Step.RulesEventBoardAction
	if len(actions) > 0 {
		if player := state.PlayerByID(actions[0].Player()); player != nil {
			return player, nil
		}
	}
	return nil, fmt.Errorf("foul at step %d: %w", p.Index, ErrMissingFouler)
}

func isFoul(a *bb2.BoardAction) bool {
	t, ok := a.Type()
	return ok && t == bb2.ActionFoul
}

func injuryFromResult(base Base, p replay.RawActionResult) (Action, error) {
	if base.Player == nil {
		return nil, fmt.Errorf("injury at step %d: %w", p.Index, ErrMissingPlayer)
	}
	base.Kind = KindInjury
	in := &Injury{
		Base:      base,
		CanPileOn: base.RollType == bb2.RollPileOnInjury && p.Result.IsOrderCompleted == nil,
	}
	var err error
	if in.PileOn, in.PilingOn, err = pileOnPlayer(base.State, p, bb2.RollPileOnInjury); err != nil {
		return nil, err
	}
	if isFoul(p.Action) {
		in.Foul = true
		if in.Fouler, err = fouler(base.State, p); err != nil {
			return nil, err
		}
	}
	for _, m := range p.Result.ListModifiers.Items {
		in.Modifier += m.Value
	}
	return in, nil
}

func d6FromResult(r *replay.Replay, base Base, p replay.RawActionResult) (Action, error) {
	kind, ok := d6Kinds[base.RollType]
	if !ok {
		return nil, fmt.Errorf("roll type %v at step %d has no constructor", base.RollType, p.Index)
	}
	base.Kind = kind
	d := &D6{Base: base, Target: p.Result.Requirement}
	for _, m := range p.Result.ListModifiers.Items {
		d.Modifier += m.Value
	}

	switch kind {
	case KindDodge, KindLeap, KindGFI:
		to, ok := p.Action.Order.Target()
		if !ok {
			return nil, fmt.Errorf("%v at step %d: %w", kind, p.Index, ErrMissingCell)
		}
		d.From, d.To = p.Action.Order.CellFrom, to
	case KindLightningBolt:
		to, ok := p.Action.Order.Target()
		if !ok {
			return nil, fmt.Errorf("lightning bolt at step %d: %w", p.Index, ErrMissingCell)
		}
		d.Player = d.State.PlayerAt(to)
	}

	if playerKinds[kind] && d.Player == nil {
		return nil, fmt.Errorf("%v at step %d: %w", kind, p.Index, ErrMissingPlayer)
	}

	switch kind {
	case KindDodge:
		// A dodge that stops for a tackle or dodge skill decision carries no
		// requirement; the next step's result has it.
		if d.SubResult == bb2.SubResultChoiceUseDodgeTackle || d.SubResult == bb2.SubResultChoiceUseDodgeSkill {
			if next := nextResult(r, p.Unhandled+1); next != nil {
				d.Target = next.Requirement
				d.Modifier = 0
				for _, m := range next.ListModifiers.Items {
					d.Modifier += m.Value
				}
			}
		}
	case KindWakeUp:
		d.State = d.State.WithActive(d.Player.Team.Side)
	case KindArmor:
		d.CanPileOn = base.RollType == bb2.RollPileOnArmor && p.Result.IsOrderCompleted == nil
		var err error
		if d.PileOn, d.PilingOn, err = pileOnPlayer(d.State, p, bb2.RollPileOnArmor); err != nil {
			return nil, err
		}
		if isFoul(p.Action) {
			d.Foul = true
			if d.Fouler, err = fouler(d.State, p); err != nil {
				return nil, err
			}
			d.DamageBonus = d.Fouler.HasSkill(bb2.SkillDirtyPlayer)
		}
	}
	return d, nil
}

// nextResult is the first result of the first action of an unhandled step.
func nextResult(r *replay.Replay, unhandled int) *bb2.ActionResult {
	if unhandled >= len(r.Unhandled) {
		return nil
	}
	actions := r.Unhandled[unhandled].Step.RulesEventBoardAction
	if len(actions) == 0 || len(actions[0].Results.Items) == 0 {
		return nil
	}
	return &actions[0].Results.Items[0]
}
