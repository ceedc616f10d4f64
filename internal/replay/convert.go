package replay

import (
	"fmt"

	"github.com/cpennington/dicedornot/internal/bb2"
)

type converter func(b *builder, step *bb2.Step, action *bb2.BoardAction) error

var converters = map[bb2.ActionType]converter{
	bb2.ActionFansNumber:     convertFansNumber,
	bb2.ActionInitialWeather: convertInitialWeather,
	bb2.ActionKickoffTarget:  convertKickoffTarget,
	bb2.ActionKickoffScatter: convertKickoffScatter,
	bb2.ActionTakeDamage:     convertTakeDamage,
	bb2.ActionActivatePlayer: convertActivatePlayer,
}

// converterFor returns the converter for an action's declared type. Actions
// without a declared type are never converted.
func converterFor(action *bb2.BoardAction) (converter, bool) {
	t, ok := action.Type()
	if !ok {
		return nil, false
	}
	c, ok := converters[t]
	return c, ok
}

func sumDice(dice []int) int {
	total := 0
	for _, d := range dice {
		total += d
	}
	return total
}

func convertFansNumber(b *builder, _ *bb2.Step, action *bb2.BoardAction) error {
	for _, result := range action.Results.Items {
		dice := result.CoachChoices.ListDices
		b.r.Fans.Set(SideOf(result.CoachChoices.ConcernedTeam), Roll{Dice: dice, Total: sumDice(dice)})
	}
	return nil
}

func convertInitialWeather(b *builder, _ *bb2.Step, action *bb2.BoardAction) error {
	if len(action.Results.Items) == 0 {
		return nil
	}
	b.r.InitialWeather = bb2.Weather(sumDice(action.Results.Items[0].CoachChoices.ListDices))
	return nil
}

func convertKickoffTarget(b *builder, _ *bb2.Step, action *bb2.BoardAction) error {
	target, _ := action.Order.Target()
	b.lastDrive().Kickoff.Target = target
	return nil
}

func convertKickoffScatter(b *builder, _ *bb2.Step, action *bb2.BoardAction) error {
	kickoff := &b.lastDrive().Kickoff
	to, _ := action.Order.Target()
	for _, result := range action.Results.Items {
		rt, _ := result.Roll()
		switch rt {
		case bb2.RollKickoffScatter, bb2.RollThrowIn, bb2.RollKickoffGust:
			kickoff.Scatters = append(kickoff.Scatters, to)
		case bb2.RollTouchBack:
			if result.OrderCompleted() {
				kickoff.Scatters = append(kickoff.Scatters, to)
			}
		}
	}
	return nil
}

func diceRoll(result *bb2.ActionResult) *DiceRoll {
	roll := &DiceRoll{
		Dice:   result.CoachChoices.ListDices,
		Target: result.Requirement,
	}
	for _, m := range result.ListModifiers.Items {
		roll.Modifiers = append(roll.Modifiers, Modifier{
			Cell:  m.Cell,
			Skill: bb2.Skill(m.Skill),
			Type:  m.Type,
			Value: m.Value,
		})
	}
	return roll
}

func convertTakeDamage(b *builder, _ *bb2.Step, action *bb2.BoardAction) error {
	drive := b.lastDrive()
	damage := Damage{Player: NewPlayerID(action.Player())}
	for i := range action.Results.Items {
		result := &action.Results.Items[i]
		rt, ok := result.Roll()
		if !ok {
			return fmt.Errorf("%w: result without roll type", ErrUnknownDamage)
		}
		switch rt {
		case bb2.RollInjury:
			damage.Injury = diceRoll(result)
		case bb2.RollArmor, bb2.RollChainsawArmor:
			damage.Armor = diceRoll(result)
		case bb2.RollCasualty:
			damage.Casualty = diceRoll(result)
		case bb2.RollRegeneration:
			damage.Regeneration = diceRoll(result)
		case bb2.RollPileOnArmor:
			if len(result.CoachChoices.ListDices) > 0 {
				if damage.Armor == nil {
					return fmt.Errorf("%w: pile on without an armor roll", ErrUnknownDamage)
				}
				damage.Armor.PileOn = diceRoll(result)
			}
		case bb2.RollPileOnInjury:
			if len(result.CoachChoices.ListDices) > 0 {
				if damage.Casualty == nil {
					return fmt.Errorf("%w: pile on without a casualty roll", ErrUnknownDamage)
				}
				damage.Casualty.PileOn = diceRoll(result)
			}
		case bb2.RollRaiseDead:
			damage.RaiseDead = true
		default:
			return fmt.Errorf("%w: %s", ErrUnknownDamage, rt)
		}
	}

	if n := len(drive.Turns); n > 0 {
		turn := drive.Turns[n-1]
		if m := len(turn.Activations); m > 0 {
			activation := turn.Activations[m-1]
			activation.ActionSteps = append(activation.ActionSteps, ActionStep{Damage: &damage})
			return nil
		}
	}
	// Rocks thrown during the kickoff.
	drive.Kickoff.Damages = append(drive.Kickoff.Damages, damage)
	return nil
}

func convertActivatePlayer(b *builder, step *bb2.Step, action *bb2.BoardAction) error {
	drive := b.lastDrive()
	number := action.Player()
	id := NewPlayerID(number)

	gameTurn := 0
	if board := step.Board(); board != nil {
		if state := board.Team(int(id.Side)); state != nil {
			gameTurn = state.GameTurn
		}
	}

	var turn *Turn
	if n := len(drive.Turns); n > 0 {
		turn = drive.Turns[n-1]
	}
	if turn == nil || turn.Side != id.Side || turn.Number != gameTurn {
		turn = &Turn{
			Number:     gameTurn,
			Side:       id.Side,
			Checkpoint: b.r.Checkpoint,
		}
		drive.Turns = append(drive.Turns, turn)
	}
	turn.Activations = append(turn.Activations, &Activation{
		Player:     id,
		Checkpoint: b.r.Checkpoint,
	})
	return nil
}
