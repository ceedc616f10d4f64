package rolls

import (
	"github.com/cpennington/dicedornot/internal/bb2"
)

// condition reports whether candidate is a consequence of primary.
type condition func(primary, candidate Action) bool

func damage(a Action) (foul, ok bool) {
	switch v := a.(type) {
	case *D6:
		return v.Foul, v.Kind == KindArmor
	case *Injury:
		return v.Foul, true
	case *Casualty:
		return v.Foul, true
	}
	return false, false
}

func isRoll(a Action) bool {
	switch a.(type) {
	case *Block, *D6, *Injury, *Casualty, *Kickoff:
		return true
	}
	return false
}

func samePlayer(a, b Action) bool {
	pa, pb := a.Common().Player, b.Common().Player
	if pa == nil || pb == nil {
		return pa == pb
	}
	return pa.ID == pb.ID
}

func pushOrFollow(_, d Action) bool {
	c, ok := d.(*Choice)
	return ok && (c.RollType == bb2.RollPush || c.RollType == bb2.RollFollowUp)
}

func nonFoulDamage(_, d Action) bool {
	foul, ok := damage(d)
	return ok && !foul
}

func foulDamage(p, d Action) bool {
	if foul, ok := damage(p); !ok || !foul {
		return false
	}
	if c, ok := d.(*Choice); ok && c.RollType == bb2.RollFoulPenalty {
		return true
	}
	foul, ok := damage(d)
	return ok && foul && samePlayer(p, d)
}

func reroll(p, d Action) bool {
	if !isRoll(p) || !isRoll(d) {
		return false
	}
	pb, db := p.Common(), d.Common()
	return db.RollType == pb.RollType && db.RollStatus.IsReroll()
}

func sameTeamMove(p, d Action) bool {
	_, ok := d.(*Move)
	return ok && p.Common().State.Active == d.Common().State.Active
}

func setupPlacement(_, d Action) bool {
	_, ok := d.(*Setup)
	return ok
}

func samePlayerMove(p, d Action) bool {
	_, ok := d.(*Move)
	return ok && samePlayer(p, d)
}

func catchOrInterception(_, d Action) bool {
	r, ok := d.(*D6)
	return ok && (r.Kind == KindCatch || r.Kind == KindInterception)
}

func isKickoffRoll(_, d Action) bool {
	r, ok := d.(*D6)
	return ok && r.Kind == KindPitchInvasion
}

func isDependent(p, d Action) bool {
	for _, cond := range p.conditions() {
		if cond(p, d) {
			return true
		}
	}
	return false
}

// nextAction is the action that follows b inside its linked group.
func nextAction(b *Base) Action {
	if len(b.Dependents) > 0 {
		return b.Dependents[0]
	}
	if b.Dependent != nil {
		deps := b.Dependent.Primary.Common().Dependents
		if i := b.Dependent.Index + 1; i < len(deps) {
			return deps[i]
		}
	}
	return nil
}

// mergeMove extends last by next when both are moves of the same player in
// the same turn.
func mergeMove(last Action, next *Move, turn int) bool {
	m, ok := last.(*Move)
	if !ok || m.Player.ID != next.Player.ID || turn != next.Turn() {
		return false
	}
	m.To = next.To
	return true
}

// Link drops ignored actions and folds the rest into primaries, each
// carrying the actions that depend on it. Every action of the input keeps
// a reference to the returned list, and all memoized values are reset.
func Link(actions []Action) []Action {
	var linked []Action
	for _, next := range actions {
		if next.Ignore() {
			continue
		}
		if len(linked) == 0 {
			linked = append(linked, next)
			continue
		}
		last := linked[len(linked)-1]
		lb := last.Common()
		if move, ok := next.(*Move); ok {
			if mergeMove(last, move, lb.Turn()) {
				continue
			}
			if n := len(lb.Dependents); n > 0 && mergeMove(lb.Dependents[n-1], move, lb.Turn()) {
				continue
			}
		}
		if next.Common().Dependent == nil && isDependent(last, next) {
			nb := next.Common()
			lb.Dependents = append(lb.Dependents, next)
			nb.Dependent = &Dependent{Primary: last, Index: len(lb.Dependents) - 1}
			continue
		}
		linked = append(linked, next)
	}

	for i, a := range linked {
		b := a.Common()
		b.RollIndex = i
		b.EndIndex = EndOfReplay
		if i+1 < len(linked) {
			b.EndIndex = linked[i+1].Common().StartIndex
		}
	}
	for _, a := range actions {
		a.Common().Linked = linked
	}
	if len(actions) > 0 {
		if ctx := actions[0].Common().ctx; ctx != nil {
			ctx.primaries = linked
			ctx.Reset()
		}
	}
	return linked
}
