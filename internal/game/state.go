// Package game provides read-only snapshots of both teams at a single
// moment of a replay.
package game

import (
	"slices"
	"strings"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/replay"
)

type Player struct {
	Team        *Team
	ID          int
	Name        string
	Type        int
	Cell        bb2.Cell
	Situation   bb2.Situation
	CanAct      bool
	Skills      []bb2.Skill
	BallCarrier bool
	Blitzer     bool
	Stats       replay.Stats
	Value       int
}

func (p *Player) HasSkill(skill bb2.Skill) bool {
	return slices.Contains(p.Skills, skill)
}

// TV is the player's team value. Players without a recorded value count as
// one unit so they still carry a share of their team.
func (p *Player) TV() float64 {
	if p.Value > 0 {
		return float64(p.Value)
	}
	return 1
}

func (p *Player) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.String())
	}
	return names
}

type Team struct {
	Name      string
	Side      replay.Side
	Fame      int
	Babes     int
	Turn      int
	BlitzerID int
	Players   []*Player
}

// ShortName is the team's initials.
func (t *Team) ShortName() string {
	var b strings.Builder
	for _, word := range strings.Fields(t.Name) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return b.String()
}

func (t *Team) Player(id int) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// State is the game at one moment. A State is never modified after it is
// built; WithActive returns a copy.
type State struct {
	Teams  replay.ByTeam[*Team]
	Active replay.Side
	Turn   int
	Ball   bb2.Cell
}

func (s *State) Team(side replay.Side) *Team {
	return s.Teams.Get(side)
}

// ActiveTeam returns the team whose turn it is.
func (s *State) ActiveTeam() *Team {
	return s.Teams.Get(s.Active)
}

func (s *State) PlayerByID(id int) *Player {
	team := s.Teams.Get(replay.SideOf(bb2.PlayerSide(id)))
	if team == nil {
		return nil
	}
	return team.Player(id)
}

// PlayerAt returns the first player standing on cell, home team first.
func (s *State) PlayerAt(cell bb2.Cell) *Player {
	for _, side := range []replay.Side{replay.Home, replay.Away} {
		team := s.Teams.Get(side)
		if team == nil {
			continue
		}
		for _, p := range team.Players {
			if p.Cell == cell {
				return p
			}
		}
	}
	return nil
}

// WithActive returns a copy of the state with a different active team.
func (s *State) WithActive(side replay.Side) *State {
	c := *s
	c.Active = side
	c.Turn = c.Teams.Get(side).Turn
	return &c
}

// FromBoard builds a state from raw board snapshots. Positions, skills and
// the ball come from initial; the active team and blitzer come from final.
func FromBoard(initial, final *bb2.BoardState) *State {
	if final == nil {
		final = initial
	}
	s := &State{
		Active: replay.SideOf(final.ActiveTeam),
		Ball:   initial.Ball.Cell,
	}
	for _, side := range []replay.Side{replay.Home, replay.Away} {
		s.Teams.Set(side, teamFromBoard(side, initial, final))
	}
	s.Turn = s.Teams.Get(s.Active).Turn
	return s
}

func teamFromBoard(side replay.Side, initial, final *bb2.BoardState) *Team {
	team := &Team{Side: side}
	state := initial.Team(int(side))
	if state == nil {
		return team
	}
	team.Name = bb2.CleanName(state.Data.Name.String())
	team.Fame = state.Fame
	team.Babes = state.Babes
	team.Turn = state.GameTurn
	team.BlitzerID = state.BlitzerID

	blitzer := state.BlitzerID
	if fs := final.Team(int(side)); fs != nil {
		blitzer = fs.BlitzerID
	}
	held := initial.Ball.IsHeld == 1

	for _, pp := range state.ListPitchPlayers.Items {
		skills := make([]bb2.Skill, 0, len(pp.Data.ListSkills))
		for _, sk := range pp.Data.ListSkills {
			skills = append(skills, bb2.Skill(sk))
		}
		team.Players = append(team.Players, &Player{
			Team:        team,
			ID:          pp.ID,
			Name:        bb2.CleanName(pp.Data.Name.String()),
			Type:        pp.Data.IDPlayerTypes,
			Cell:        pp.Cell,
			Situation:   pp.Situation,
			CanAct:      pp.CanAct == 1 && pp.Situation == bb2.SituationActive,
			Skills:      skills,
			BallCarrier: held && pp.Cell == initial.Ball.Cell,
			Blitzer:     blitzer == pp.ID,
			Stats: replay.Stats{
				MA: pp.Data.Ma,
				ST: pp.Data.St,
				AG: pp.Data.Ag,
				AV: pp.Data.Av,
			},
			Value: pp.Data.Value,
		})
	}
	return team
}

// FromCheckpoint builds a state from the structured replay. Rosters come
// from the replay's teams and positions from the checkpoint; players missing
// from the checkpoint are treated as reserves.
func FromCheckpoint(r *replay.Replay, cp *replay.Checkpoint, active replay.Side, turn int) *State {
	s := &State{
		Active: active,
		Turn:   turn,
		Ball:   replay.OffPitch,
	}
	for _, side := range []replay.Side{replay.Home, replay.Away} {
		def := r.Teams.Get(side)
		team := &Team{Side: side, Turn: turn}
		if def != nil {
			team.Name = def.Name
			ids := make([]int, 0, len(def.Players))
			for id := range def.Players {
				ids = append(ids, id)
			}
			slices.Sort(ids)
			for _, id := range ids {
				team.Players = append(team.Players, playerFromCheckpoint(team, def.Players[id], cp))
			}
		}
		for _, p := range team.Players {
			if p.Blitzer {
				team.BlitzerID = p.ID
			}
		}
		s.Teams.Set(side, team)
	}
	return s
}

func playerFromCheckpoint(team *Team, def *replay.Player, cp *replay.Checkpoint) *Player {
	p := &Player{
		Team:      team,
		ID:        def.ID.Number,
		Name:      def.Name,
		Type:      def.Type,
		Cell:      replay.OffPitch,
		Situation: bb2.SituationReserves,
		Skills:    def.Skills,
		Stats:     def.Stats,
		Value:     def.Value,
	}
	if cp == nil {
		return p
	}
	if ps, ok := cp.Players[p.ID]; ok {
		p.Cell = ps.Cell
		p.Situation = ps.Situation
		p.CanAct = ps.CanAct && ps.Situation == bb2.SituationActive
		p.Blitzer = ps.Blitzer
	}
	return p
}
