package analysis

import (
	"math"
	"testing"

	"github.com/cpennington/dicedornot/internal/bb2"
)

func intp(v int) *int { return &v }

func pitchPlayer(id int, cell bb2.Cell) bb2.PitchPlayer {
	return bb2.PitchPlayer{
		ID:     id,
		Cell:   cell,
		CanAct: 1,
		Data: bb2.PlayerData{
			ID:    id,
			Name:  bb2.Text("Player " + string(rune('A'+id%26))),
			Ma:    6,
			St:    3,
			Ag:    3,
			Av:    8,
			Value: 70,
		},
	}
}

func board() bb2.BoardState {
	team := func(name string, players ...bb2.PitchPlayer) bb2.TeamState {
		return bb2.TeamState{
			Data:             bb2.TeamData{Name: bb2.Text(name)},
			GameTurn:         1,
			ListPitchPlayers: bb2.Keyed[bb2.PlayerStateKey, bb2.PitchPlayer]{Items: players},
		}
	}
	return bb2.BoardState{
		ListTeams: bb2.Keyed[bb2.TeamStateKey, bb2.TeamState]{Items: []bb2.TeamState{
			team("Home Team", pitchPlayer(1, bb2.Cell{X: 5, Y: 5}), pitchPlayer(2, bb2.Cell{X: 6, Y: 5})),
			team("Away Team", pitchPlayer(31, bb2.Cell{X: 7, Y: 5})),
		}},
		Ball: bb2.Ball{Cell: bb2.Cell{X: -1, Y: -1}},
	}
}

// blockReplay has a block of player 1 on player 31 with two push faces,
// plus a hypnotic gaze nothing values yet. The builder cannot convert the
// block and leaves the step for the raw positions.
func blockReplay() *bb2.Document {
	boardStep := bb2.Step{BoardState: bb2.Set(board())}
	action := boardStep
	action.RulesEventBoardAction = bb2.List[bb2.BoardAction]{
		{
			PlayerID:   intp(1),
			ActionType: intp(int(bb2.ActionBlock)),
			Order: bb2.Order{
				CellFrom: bb2.Cell{X: 6, Y: 5},
				CellTo:   bb2.Keyed[bb2.CellKey, bb2.Cell]{Items: []bb2.Cell{{X: 7, Y: 5}}},
			},
			Results: bb2.Keyed[bb2.ResultKey, bb2.ActionResult]{Items: []bb2.ActionResult{{
				RollType:     intp(int(bb2.RollBlock)),
				ResultType:   intp(int(bb2.ResultFailTeamRR)),
				Requirement:  1,
				CoachChoices: bb2.CoachChoices{ListDices: bb2.Numbers{2, 2, 2, 2}},
			}}},
		},
		{
			PlayerID: intp(2),
			Results: bb2.Keyed[bb2.ResultKey, bb2.ActionResult]{Items: []bb2.ActionResult{{
				RollType:     intp(int(bb2.RollHypnoticGaze)),
				CoachChoices: bb2.CoachChoices{ListDices: bb2.Numbers{3}},
			}}},
		},
	}
	return &bb2.Document{Replay: bb2.Replay{
		ReplayStep: bb2.List[bb2.Step]{boardStep, boardStep, action, boardStep},
	}}
}

func TestProcess(t *testing.T) {
	report, err := Process(blockReplay(), "block.json", Options{Decay: 1, Simulations: 50, Seed: 1})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(report.Actions) != 1 {
		t.Fatalf("len(Actions) = %d, want 1", len(report.Actions))
	}
	block := report.Actions[0]
	if block.Kind != "Block" || block.Player != "Player B" || block.Team != "Home Team" {
		t.Errorf("action = %s by %s of %s, want Block by Player B of Home Team", block.Kind, block.Player, block.Team)
	}
	if block.Value <= 0 {
		t.Errorf("Value = %v, want a positive push value", block.Value)
	}
	if math.Abs(block.Delta-(block.Value-block.Expected)) > 1e-9 {
		t.Errorf("Delta = %v, want %v", block.Delta, block.Value-block.Expected)
	}
	if len(block.Outcomes) == 0 {
		t.Error("Outcomes is empty")
	}

	if report.Halt == nil || report.Halt.Step != 2 {
		t.Errorf("Halt = %+v, want a halt at step 2", report.Halt)
	}
	if len(report.Unknown) != 1 || report.Unknown[0].Name != bb2.RollHypnoticGaze.String() || report.Unknown[0].Count != 1 {
		t.Errorf("Unknown = %+v, want one %s", report.Unknown, bb2.RollHypnoticGaze)
	}

	if len(report.Activations) != 1 || report.Activations[0].Key != "1-Player B" {
		t.Errorf("Activations = %+v, want one for 1-Player B", report.Activations)
	}
	if len(report.Luck) != 1 || report.Luck[0].Team != "Home Team" {
		t.Fatalf("Luck = %+v, want one entry for Home Team", report.Luck)
	}
	luck := report.Luck[0]
	if luck.P33 > luck.P50 || luck.P50 > luck.P67 {
		t.Errorf("quantiles out of order: %v %v %v", luck.P33, luck.P50, luck.P67)
	}
	if luck.Percentile < 0 || luck.Percentile > 1 {
		t.Errorf("Percentile = %v, want within [0, 1]", luck.Percentile)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	a, err := Analyze(&blockReplay().Replay, Options{Decay: 1})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	first := Simulate(a.Linked, 100, 7)
	second := Simulate(a.Linked, 100, 7)
	if len(first) != len(second) {
		t.Fatalf("Simulate() lengths differ: %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Simulate()[%d] = %+v then %+v, want equal", i, first[i], second[i])
		}
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a, err := Analyze(&bb2.Replay{}, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(a.Linked) != 0 {
		t.Errorf("len(Linked) = %d, want 0", len(a.Linked))
	}
	report := a.Report("empty", Options{Simulations: 10})
	if len(report.Actions) != 0 || len(report.Luck) != 0 {
		t.Errorf("report = %+v, want no actions and no luck", report)
	}
}
