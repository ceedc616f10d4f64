package replay

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cpennington/dicedornot/internal/bb2"
)

func intp(v int) *int { return &v }

func pitchPlayer(id int, cell bb2.Cell) bb2.PitchPlayer {
	return bb2.PitchPlayer{
		ID:   id,
		Cell: cell,
		Data: bb2.PlayerData{
			ID:    id,
			Name:  bb2.Text("Player " + string(rune('A'+id%26))),
			Ma:    6,
			St:    3,
			Ag:    3,
			Av:    8,
			Value: 70,
		},
		CanAct: 1,
	}
}

func boardState(turn int, home, away []bb2.PitchPlayer) bb2.BoardState {
	return bb2.BoardState{
		ListTeams: bb2.Keyed[bb2.TeamStateKey, bb2.TeamState]{Items: []bb2.TeamState{
			{Data: bb2.TeamData{Name: "Home Team"}, GameTurn: turn, ListPitchPlayers: bb2.Keyed[bb2.PlayerStateKey, bb2.PitchPlayer]{Items: home}},
			{Data: bb2.TeamData{Name: "Away Team"}, GameTurn: turn, ListPitchPlayers: bb2.Keyed[bb2.PlayerStateKey, bb2.PitchPlayer]{Items: away}},
		}},
		Ball: bb2.Ball{Cell: bb2.Cell{X: -1, Y: -1}},
	}
}

func defaultBoard() bb2.BoardState {
	return boardState(1,
		[]bb2.PitchPlayer{pitchPlayer(1, bb2.Cell{X: 5, Y: 5}), pitchPlayer(2, bb2.Cell{X: 6, Y: 5})},
		[]bb2.PitchPlayer{pitchPlayer(31, bb2.Cell{X: 7, Y: 5})},
	)
}

func boardStep(board bb2.BoardState) bb2.Step {
	return bb2.Step{BoardState: bb2.Set(board)}
}

func actionStep(board bb2.BoardState, actions ...bb2.BoardAction) bb2.Step {
	step := boardStep(board)
	step.RulesEventBoardAction = actions
	return step
}

func boardAction(player int, actionType *int, results ...bb2.ActionResult) bb2.BoardAction {
	return bb2.BoardAction{
		PlayerID:   intp(player),
		ActionType: actionType,
		Results:    bb2.Keyed[bb2.ResultKey, bb2.ActionResult]{Items: results},
	}
}

func rollResult(rt bb2.RollType, dice ...int) bb2.ActionResult {
	return bb2.ActionResult{
		RollType:     intp(int(rt)),
		ResultType:   intp(int(bb2.ResultPassed)),
		CoachChoices: bb2.CoachChoices{ListDices: dice},
	}
}

func build(t *testing.T, steps ...bb2.Step) *Replay {
	t.Helper()
	r, err := Build(&bb2.Replay{ReplayStep: steps})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return r
}

func TestBuildHaltsOnUnsupportedStep(t *testing.T) {
	tests := []struct {
		name       string
		steps      []bb2.Step
		wantHalt   int
		wantReason string
	}{
		{
			name: "coach choice",
			steps: func() []bb2.Step {
				s := boardStep(defaultBoard())
				s.RulesEventCoachChoice = bb2.Set(json.RawMessage(`{}`))
				return []bb2.Step{boardStep(defaultBoard()), s, boardStep(defaultBoard())}
			}(),
			wantHalt:   1,
			wantReason: "Can't handle RulesEventCoachChoice",
		},
		{
			name: "unconvertible board action",
			steps: []bb2.Step{
				boardStep(defaultBoard()),
				boardStep(defaultBoard()),
				actionStep(defaultBoard(), boardAction(1, intp(int(bb2.ActionBlock)), rollResult(bb2.RollBlock, 2, 2))),
				boardStep(defaultBoard()),
			},
			wantHalt:   2,
			wantReason: "Not all action types can be converted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := build(t, tt.steps...)
			if r.Halt == nil {
				t.Fatal("Halt = nil, want a halt")
			}
			if r.Halt.Step != tt.wantHalt || r.Halt.Reason != tt.wantReason {
				t.Errorf("Halt = %+v, want step %d %q", *r.Halt, tt.wantHalt, tt.wantReason)
			}
			if got, want := len(r.Unhandled), len(tt.steps)-tt.wantHalt; got != want {
				t.Fatalf("len(Unhandled) = %d, want %d", got, want)
			}
			for i, is := range r.Unhandled {
				if is.Index != tt.wantHalt+i {
					t.Errorf("Unhandled[%d].Index = %d, want %d", i, is.Index, tt.wantHalt+i)
				}
			}
		})
	}
}

func TestBuildWithoutHalt(t *testing.T) {
	r := build(t, boardStep(defaultBoard()), boardStep(defaultBoard()))
	if r.Halt != nil {
		t.Errorf("Halt = %+v, want nil", *r.Halt)
	}
	if len(r.Unhandled) != 0 {
		t.Errorf("len(Unhandled) = %d, want 0", len(r.Unhandled))
	}
	if len(r.Steps) != 2 {
		t.Errorf("len(Steps) = %d, want 2", len(r.Steps))
	}
}

func TestCheckpointCapture(t *testing.T) {
	moved := defaultBoard()
	moved.ListTeams.Items[0].ListPitchPlayers.Items[0].Cell = bb2.Cell{X: 9, Y: 9}

	r := build(t, boardStep(defaultBoard()), boardStep(moved))

	ps, ok := r.Checkpoint.Players[1]
	if !ok {
		t.Fatal("player 1 missing from checkpoint")
	}
	if ps.Cell != (bb2.Cell{X: 9, Y: 9}) {
		t.Errorf("Cell = %v, want {9 9}", ps.Cell)
	}
	if !ps.CanAct {
		t.Error("CanAct = false, want true")
	}
	if id, ok := r.Checkpoint.At(bb2.Cell{X: 7, Y: 5}); !ok || id != 31 {
		t.Errorf("At({7 5}) = %d, %v, want 31, true", id, ok)
	}
	if _, ok := r.Checkpoint.At(bb2.Cell{X: 0, Y: 0}); ok {
		t.Error("At({0 0}) found a player on an empty cell")
	}
}

func TestSetupAction(t *testing.T) {
	setup := boardStep(defaultBoard())
	setup.RulesEventWaitingRequest = bb2.Set(bb2.WaitingRequest{ConcernedTeam: bb2.AwaySide})
	setup.RulesEventSetUpAction = bb2.Set(bb2.SetUpAction{
		PlayerPosition: bb2.Cell{X: 7, Y: 5},
		NewPosition:    bb2.Cell{X: 12, Y: 3},
	})

	missing := boardStep(defaultBoard())
	missing.RulesEventSetUpAction = bb2.Set(bb2.SetUpAction{
		PlayerPosition: bb2.Cell{X: 0, Y: 0},
		NewPosition:    bb2.Cell{X: 1, Y: 1},
	})

	r := build(t, boardStep(defaultBoard()), setup, missing)

	if len(r.Drives) != 1 {
		t.Fatalf("len(Drives) = %d, want 1", len(r.Drives))
	}
	away := r.Drives[0].Setups.Away
	if len(away) != 1 {
		t.Fatalf("len(Setups.Away) = %d, want 1", len(away))
	}
	if got := away[0].Moves[31]; got != (bb2.Cell{X: 12, Y: 3}) {
		t.Errorf("Moves[31] = %v, want {12 3}", got)
	}
	if len(r.Drives[0].Setups.Home) != 0 {
		t.Errorf("unmatched setup was recorded: %v", r.Drives[0].Setups.Home)
	}
}

func TestTakeDamage(t *testing.T) {
	activate := boardAction(1, intp(int(bb2.ActionActivatePlayer)))
	damage := boardAction(31, intp(int(bb2.ActionTakeDamage)),
		rollResult(bb2.RollArmor, 5, 5),
		rollResult(bb2.RollInjury, 4, 5),
	)

	r := build(t,
		boardStep(defaultBoard()),
		actionStep(defaultBoard(), activate),
		actionStep(defaultBoard(), damage),
	)

	turns := r.Drives[0].Turns
	if len(turns) != 1 || len(turns[0].Activations) != 1 {
		t.Fatalf("turns = %v, want one turn with one activation", turns)
	}
	steps := turns[0].Activations[0].ActionSteps
	if len(steps) != 1 || steps[0].Damage == nil {
		t.Fatalf("ActionSteps = %v, want one damage step", steps)
	}
	d := steps[0].Damage
	if d.Player.Number != 31 || d.Player.Side != Away {
		t.Errorf("Damage.Player = %+v, want away 31", d.Player)
	}
	if d.Armor == nil || len(d.Armor.Dice) != 2 {
		t.Errorf("Damage.Armor = %v, want two dice", d.Armor)
	}
	if d.Injury == nil || d.Injury.Dice[1] != 5 {
		t.Errorf("Damage.Injury = %v, want dice [4 5]", d.Injury)
	}
}

func TestTakeDamageErrors(t *testing.T) {
	tests := []struct {
		name    string
		results []bb2.ActionResult
	}{
		{name: "unknown roll type", results: []bb2.ActionResult{rollResult(bb2.RollBlock, 1)}},
		{name: "pile on without armor", results: []bb2.ActionResult{rollResult(bb2.RollPileOnArmor, 3, 3)}},
		{name: "missing roll type", results: []bb2.ActionResult{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			damage := boardAction(31, intp(int(bb2.ActionTakeDamage)), tt.results...)
			_, err := Build(&bb2.Replay{ReplayStep: []bb2.Step{
				boardStep(defaultBoard()),
				actionStep(defaultBoard(), damage),
			}})
			if !errors.Is(err, ErrUnknownDamage) {
				t.Errorf("Build() error = %v, want ErrUnknownDamage", err)
			}
		})
	}
}

func TestKickoffDamage(t *testing.T) {
	damage := boardAction(2, intp(int(bb2.ActionTakeDamage)), rollResult(bb2.RollArmor, 1, 2))
	r := build(t, boardStep(defaultBoard()), actionStep(defaultBoard(), damage))
	if got := len(r.Drives[0].Kickoff.Damages); got != 1 {
		t.Errorf("len(Kickoff.Damages) = %d, want 1", got)
	}
}

func TestActivationTurns(t *testing.T) {
	turn2 := defaultBoard()
	for i := range turn2.ListTeams.Items {
		turn2.ListTeams.Items[i].GameTurn = 2
	}
	activate := func(player int) bb2.BoardAction {
		return boardAction(player, intp(int(bb2.ActionActivatePlayer)))
	}

	r := build(t,
		boardStep(defaultBoard()),
		actionStep(defaultBoard(), activate(1)),
		actionStep(defaultBoard(), activate(2)),
		actionStep(defaultBoard(), activate(31)),
		actionStep(turn2, activate(1)),
	)

	turns := r.Drives[0].Turns
	want := []struct {
		side        Side
		number      int
		activations int
	}{
		{Home, 1, 2},
		{Away, 1, 1},
		{Home, 2, 1},
	}
	if len(turns) != len(want) {
		t.Fatalf("len(Turns) = %d, want %d", len(turns), len(want))
	}
	for i, w := range want {
		if turns[i].Side != w.side || turns[i].Number != w.number || len(turns[i].Activations) != w.activations {
			t.Errorf("Turns[%d] = %s turn %d with %d activations, want %s turn %d with %d",
				i, turns[i].Side, turns[i].Number, len(turns[i].Activations), w.side, w.number, w.activations)
		}
	}
}

func TestGameInfo(t *testing.T) {
	board := defaultBoard()
	board.ListTeams.Items[0].Data.Name = "[colour='ff00ff00']Orcs &amp; Goblins"
	board.ListTeams.Items[1].GameTurn = 17

	info := boardStep(board)
	info.GameInfos = bb2.Set(bb2.GameInfos{
		NameStadium: "Big &amp; Loud",
		RowLeague:   bb2.RowLeague{Name: "Test League"},
		CoachesInfos: bb2.CoachesInfos{CoachInfos: bb2.List[bb2.CoachInfo]{
			{UserID: "alice"},
			{UserID: "bob"},
		}},
	})
	finished := bb2.Step{RulesEventGameFinished: bb2.Set(bb2.GameFinished{
		MatchResult: bb2.MatchResult{Row: bb2.MatchRow{HomeScore: 2, AwayScore: 1, Finished: "2020-05-01 18:30:00"}},
	})}

	r := build(t, info, finished)

	if r.Teams.Home.Name != "Orcs & Goblins" {
		t.Errorf("Home.Name = %q, want %q", r.Teams.Home.Name, "Orcs & Goblins")
	}
	if r.Teams.Away.Coach != "bob" {
		t.Errorf("Away.Coach = %q, want bob", r.Teams.Away.Coach)
	}
	if r.Stadium.Name != "Big & Loud" {
		t.Errorf("Stadium.Name = %q, want %q", r.Stadium.Name, "Big & Loud")
	}
	if r.Metadata.League != "Test League" {
		t.Errorf("League = %q, want Test League", r.Metadata.League)
	}
	if r.FinalScore.Home != 2 || r.FinalScore.Away != 1 {
		t.Errorf("FinalScore = %+v, want 2-1", r.FinalScore)
	}
	if r.Metadata.DatePlayed.Year() != 2020 {
		t.Errorf("DatePlayed = %v, want 2020", r.Metadata.DatePlayed)
	}
	if r.GameLength != 17 {
		t.Errorf("GameLength = %d, want 17", r.GameLength)
	}
	if p := r.Player(31); p == nil || p.Stats.AV != 8 {
		t.Errorf("Player(31) = %+v, want AV 8", p)
	}
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		turn, want int
	}{
		{1, 1}, {8, 1}, {9, 2}, {16, 2}, {17, 3},
	}
	for _, tt := range tests {
		if got := Period(tt.turn); got != tt.want {
			t.Errorf("Period(%d) = %d, want %d", tt.turn, got, tt.want)
		}
	}
}
