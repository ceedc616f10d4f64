package rolls

import (
	"fmt"
	"math"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
	"github.com/cpennington/dicedornot/internal/replay"
)

// Share of a full team's scoring rate carried by one player's worth of
// team value: a full team scores about 1.5 points a game, a pitch-cleared
// opponent about 16.
const teamScale = 6.5 / 32

func chebyshev(a, b bb2.Cell) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func ballPositionValue(side replay.Side, cell bb2.Cell) dist.Distribution {
	toGoal := cell.X
	if side == replay.Home {
		toGoal = 25 - cell.X
	}
	v := 1.0
	if toGoal != 0 {
		v = 0.5 * math.Pow(0.85, float64(toGoal-1))
	}
	return dist.Single(fmt.Sprintf("%d to goal", toGoal), v)
}

// ballDelta is the change in ball position value of a carrier moving from
// one cell to another.
func ballDelta(p *game.Player, from, to bb2.Cell, fallback string) dist.Distribution {
	if p == nil || !p.BallCarrier {
		return dist.Single(fallback, 0)
	}
	return dist.Subtract(ballPositionValue(p.Team.Side, to), ballPositionValue(p.Team.Side, from))
}

func onActiveTeam(s *game.State, p *game.Player) bool {
	return p.Team != nil && p.Team.Side == s.Active
}

func rawPlayerValue(p *game.Player) dist.Distribution {
	return dist.Single(fmt.Sprintf("TV(%s)", p.Name), p.TV())
}

func playerValue(s *game.State, p *game.Player) dist.Distribution {
	if s.Ball.X < 0 || s.Ball.Y < 0 {
		return rawPlayerValue(p)
	}
	switch chebyshev(s.Ball, p.Cell) {
	case 0:
		return dist.Named(fmt.Sprintf("PV(%s)", p.Name), dist.Product(rawPlayerValue(p), dist.Single("On Ball", 2)))
	case 1:
		return dist.Named(fmt.Sprintf("PV(%s)", p.Name), dist.Product(rawPlayerValue(p), dist.Single("By Ball", 1.5)))
	}
	return rawPlayerValue(p)
}

// teamValue sums the players still available to the team, plus including.
func teamValue(s *game.State, t *game.Team, including *game.Player) dist.Distribution {
	var values []dist.Distribution
	for _, p := range t.Players {
		switch {
		case p.Situation == bb2.SituationActive, p.Situation == bb2.SituationReserves, p.Situation == bb2.SituationKO:
		case p.ID == including.ID:
		default:
			continue
		}
		values = append(values, playerValue(s, p))
	}
	return dist.Sum(fmt.Sprintf("TV(%s)", t.Name), values...)
}

// onTeamValue is the share of its team's scoring that p represents.
func onTeamValue(b *Base, p *game.Player) dist.Distribution {
	return b.ctx.cached(memoKey{id: b.id, kind: "onTeam", player: p.ID}, func() dist.Distribution {
		share := dist.Divide(playerValue(b.State, p), dist.Named("Players on Team", teamValue(b.State, p.Team, p)))
		return dist.Named(p.Name, dist.Scale(share, teamScale))
	})
}

func halfTurnsInGame(s *game.State) float64 {
	total := 0
	for _, t := range []*game.Team{s.Teams.Home, s.Teams.Away} {
		if t == nil {
			continue
		}
		if s.Turn <= 16 {
			total += 16 - t.Turn
		} else {
			total += 24 - t.Turn
		}
	}
	return float64(max(total, 0))
}

func halfTurnsInHalf(s *game.State) float64 {
	total := 1
	for _, t := range []*game.Team{s.Teams.Home, s.Teams.Away} {
		if t == nil {
			continue
		}
		switch {
		case s.Turn <= 8:
			total += 8 - t.Turn
		case s.Turn <= 16:
			total += 16 - t.Turn
		default:
			total += 24 - t.Turn
		}
	}
	return float64(max(total, 0))
}

func stunTurns(s *game.State, p *game.Player) float64 {
	if onActiveTeam(s, p) {
		return min(4, halfTurnsInHalf(s))
	}
	return min(3, halfTurnsInHalf(s))
}

func kdTurns(s *game.State, p *game.Player) float64 {
	if onActiveTeam(s, p) {
		return min(2, halfTurnsInHalf(s))
	}
	return min(1, halfTurnsInHalf(s))
}

// missing scales a player's share by the half turns they will sit out,
// flipped when the player belongs to the team taking its turn.
func missing(b *Base, p *game.Player, label string, turns, weight float64) dist.Distribution {
	factors := []dist.Distribution{
		onTeamValue(b, p),
		dist.Single(fmt.Sprintf("TDT(%g)", turns), weight),
	}
	if onActiveTeam(b.State, p) {
		factors = append(factors, dist.Single("On Active Team", -1))
	}
	return dist.Named(fmt.Sprintf("%s(%s)", label, p.Name), dist.Product(factors...))
}

func knockdownValue(b *Base, p *game.Player, includeExpected, damageBonus bool) dist.Distribution {
	turns := kdTurns(b.State, p)
	v := missing(b, p, "KD", turns/2, b.ctx.decayed(turns))
	if includeExpected {
		v = dist.Add(v, dist.Named("Armor Roll", armorOutcomes(b, p, damageBonus)))
	}
	return v
}

func stunValue(b *Base, p *game.Player) dist.Distribution {
	turns := stunTurns(b.State, p)
	return missing(b, p, "STUN", turns/2, b.ctx.decayed(turns))
}

func koValue(b *Base, p *game.Player) dist.Distribution {
	inGame := halfTurnsInGame(b.State)
	inHalf := halfTurnsInHalf(b.State)
	wake := float64(3+p.Team.Babes) / 6
	wakeTurns := wake*inHalf + (1-wake)*inGame
	stun := stunTurns(b.State, p)
	return missing(b, p, "KO", wakeTurns-stun, b.ctx.decayed(wakeTurns)-b.ctx.decayed(stun))
}

func casValue(b *Base, p *game.Player) dist.Distribution {
	inGame := halfTurnsInGame(b.State)
	lost := dist.Product(onTeamValue(b, p), dist.Single(fmt.Sprintf("TDT(%g)", inGame/2), b.ctx.decayed(inGame)))
	lost = dist.Named(fmt.Sprintf("PV(%s)", p.Name), lost)
	if onActiveTeam(b.State, p) {
		lost = dist.Product(lost, dist.Single("On Active Team", -1))
	}
	return dist.Named(fmt.Sprintf("CAS(%s)", p.Name), dist.Subtract(lost, stunValue(b, p)))
}

// armorOutcomes values the armor roll a knocked down player would face.
func armorOutcomes(b *Base, p *game.Player, damageBonus bool) dist.Distribution {
	return b.ctx.cached(memoKey{id: b.id, kind: "armor", player: p.ID, flag: damageBonus}, func() dist.Distribution {
		return Outcomes(syntheticArmor(b, p, damageBonus))
	})
}

func dependentMoveValues(b *Base) dist.Distribution {
	var moves []dist.Distribution
	for _, d := range b.Dependents {
		if m, ok := d.(*Move); ok {
			moves = append(moves, m.Value(nil, false))
		}
	}
	if len(moves) == 0 {
		return nil
	}
	return dist.Sum("Following Moves", moves...)
}

func unactivatedPlayers(s *game.State) []*game.Player {
	team := s.ActiveTeam()
	if team == nil {
		return nil
	}
	var out []*game.Player
	for _, p := range team.Players {
		if p.CanAct {
			out = append(out, p)
		}
	}
	return out
}

// futurePlayerValue is the expected value of everything p still does this
// turn after b, or p's share of the team when p never acts again.
func futurePlayerValue(b *Base, p *game.Player) dist.Distribution {
	k := memoKey{id: b.id, kind: "future", player: p.ID}
	v, ok := b.ctx.future[k]
	if !ok {
		found := false
		for _, a := range b.ctx.primaries {
			ab := a.Common()
			if ab.StartIndex <= b.StartIndex || ab.Player == nil || ab.Player.ID != p.ID || ab.Turn() != b.Turn() {
				continue
			}
			v += ExpectedValue(a)
			found = true
		}
		if !found {
			v = onTeamValue(b, p).ExpectedValue()
		}
		b.ctx.future[k] = v
	}
	return dist.Single(fmt.Sprintf("Remaining Turn %d value for %s", b.Turn(), p.Name), v)
}

// turnoverValue is the cost of ending the active team's turn early.
func turnoverValue(b *Base) dist.Distribution {
	return b.ctx.cached(memoKey{id: b.id, kind: "turnover"}, func() dist.Distribution {
		var values []dist.Distribution
		for _, p := range unactivatedPlayers(b.State) {
			values = append(values, futurePlayerValue(b, p))
		}
		if len(values) == 0 {
			return dist.Single("No Active Players", 0)
		}
		return dist.Named("Turnover", dist.Negate(dist.Sum("Unactivated FPV", values...)))
	})
}

func rerollValue(name string) dist.Distribution {
	return dist.Single("Rerolled "+name, 0)
}

// PlayerShare is the expected worth of the action's player to their team at
// the time of the action, or 0 without a player.
func PlayerShare(a Action) float64 {
	b := a.Common()
	if b.Player == nil || b.Player.Team == nil {
		return 0
	}
	return onTeamValue(b, b.Player).ExpectedValue()
}
