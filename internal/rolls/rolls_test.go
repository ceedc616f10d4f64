package rolls

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
	"github.com/cpennington/dicedornot/internal/replay"
)

const epsilon = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

type fixture struct {
	ctx      *Context
	state    *game.State
	attacker *game.Player
	mate     *game.Player
	defender *game.Player
}

// newFixture is home turn 3 against away turn 2 with the ball off the
// pitch. Each team has two players.
func newFixture() *fixture {
	home := &game.Team{Name: "Reikland Reavers", Side: replay.Home, Turn: 3}
	away := &game.Team{Name: "Orc Raiders", Side: replay.Away, Turn: 2}
	player := func(t *game.Team, id, value int, cell bb2.Cell) *game.Player {
		p := &game.Player{
			Team:   t,
			ID:     id,
			Name:   t.ShortName() + string(rune('A'+id%26)),
			Cell:   cell,
			CanAct: true,
			Stats:  replay.Stats{MA: 6, ST: 3, AG: 3, AV: 8},
			Value:  value,
		}
		t.Players = append(t.Players, p)
		return p
	}
	f := &fixture{ctx: NewContext(Config{})}
	f.attacker = player(home, 1, 100, bb2.Cell{X: 5, Y: 5})
	f.mate = player(home, 2, 100, bb2.Cell{X: 2, Y: 2})
	f.defender = player(away, 31, 50, bb2.Cell{X: 6, Y: 5})
	player(away, 32, 50, bb2.Cell{X: 10, Y: 10})

	f.state = &game.State{Active: replay.Home, Turn: 3, Ball: replay.OffPitch}
	f.state.Teams.Set(replay.Home, home)
	f.state.Teams.Set(replay.Away, away)
	return f
}

func (f *fixture) base(kind Kind, p *game.Player, start int, rt bb2.RollType, dice ...int) Base {
	b := Base{
		Kind:       kind,
		State:      f.state,
		Player:     p,
		HasResult:  true,
		StartIndex: start,
		RollType:   rt,
		Dice:       dice,
	}
	f.ctx.register(&b)
	return b
}

func (f *fixture) block(start int, dice ...int) *Block {
	b := &Block{
		Base:     f.base(KindBlock, f.attacker, start, bb2.RollBlock, dice...),
		Attacker: f.attacker,
		Defender: f.defender,
	}
	b.ResultType = bb2.ResultFailTeamRR
	return b
}

func (f *fixture) d6(kind Kind, rt bb2.RollType, start, target, modifier int, dice ...int) *D6 {
	return &D6{Base: f.base(kind, f.attacker, start, rt, dice...), Target: target, Modifier: modifier}
}

func (f *fixture) move(start int, from, to bb2.Cell) *Move {
	return &Move{Base: f.base(KindMove, f.attacker, start, 0), From: from, To: to}
}

// The share of the away team one 50 TV player out of 100 represents.
const defenderShare = 0.5 * teamScale

func TestScenarioValues(t *testing.T) {
	f := newFixture()
	block := f.block(1, int(bb2.Push), int(bb2.Push))
	dodge := f.d6(KindDodge, bb2.RollDodge, 2, 3, 0, 4)
	injury := &Injury{Base: f.base(KindInjury, f.defender, 3, bb2.RollInjury, 4, 3)}

	tests := []struct {
		name   string
		action Action
		want   float64
	}{
		{"push knocks the defender down for a third", block, defenderShare * pushFactor},
		{"passed dodge without the ball", dodge, 0},
		{"stunned", injury, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActualValue(tt.action).ExpectedValue()
			if !near(got, tt.want, epsilon) {
				t.Errorf("ActualValue() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ActualValue(injury).Name(); got != "No Injury" {
		t.Errorf("injury name = %q, want %q", got, "No Injury")
	}
}

func TestRerollPlaceholder(t *testing.T) {
	f := newFixture()
	first := f.d6(KindDodge, bb2.RollDodge, 1, 6, -2, 2)
	second := f.d6(KindDodge, bb2.RollDodge, 2, 6, -2, 5)
	second.RollStatus = bb2.RerollWithSkill
	second.IsReroll = true

	linked := Link([]Action{first, second})
	if len(linked) != 1 {
		t.Fatalf("Link() returned %d actions, want 1", len(linked))
	}
	if second.Dependent == nil || second.Dependent.Primary != first {
		t.Fatalf("reroll not linked to the first dodge")
	}
	v := ActualValue(first)
	if v.Name() != "Rerolled Dodge" || v.ExpectedValue() != 0 {
		t.Errorf("ActualValue() = %s %v, want Rerolled Dodge 0", v.Name(), v.ExpectedValue())
	}
	if got := first.ModifiedTarget(); got != 6 {
		t.Errorf("ModifiedTarget() = %d, want 6", got)
	}
}

func TestLinkMergesMoves(t *testing.T) {
	f := newFixture()
	a, b, c := bb2.Cell{X: 1, Y: 1}, bb2.Cell{X: 2, Y: 1}, bb2.Cell{X: 3, Y: 2}
	first := f.move(1, a, b)
	second := f.move(2, b, c)

	linked := Link([]Action{first, second})
	if len(linked) != 1 {
		t.Fatalf("Link() returned %d actions, want 1", len(linked))
	}
	m := linked[0].(*Move)
	if m.From != a || m.To != c {
		t.Errorf("merged move = %v → %v, want %v → %v", m.From, m.To, a, c)
	}
	if m.EndIndex != EndOfReplay {
		t.Errorf("EndIndex = %d, want %d", m.EndIndex, EndOfReplay)
	}
}

func TestLinkIdempotent(t *testing.T) {
	f := newFixture()
	block := f.block(1, int(bb2.DefenderDown))
	armor := &D6{Base: f.base(KindArmor, f.defender, 2, bb2.RollArmor, 3, 4)}
	dodge := f.d6(KindDodge, bb2.RollDodge, 3, 3, 0, 5)
	gfi := f.d6(KindGFI, bb2.RollGFI, 4, 2, 0, 1)

	once := Link([]Action{block, armor, dodge, gfi})
	twice := Link(once)
	if len(once) != 3 || len(twice) != len(once) {
		t.Fatalf("Link() lengths = %d then %d, want 3 both times", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("action %d changed between links", i)
		}
		if got := once[i].Common().RollIndex; got != i {
			t.Errorf("RollIndex = %d, want %d", got, i)
		}
	}
	if len(block.Dependents) != 1 || block.Dependents[0] != armor {
		t.Errorf("armor not attached to block")
	}
	if got := block.EndIndex; got != dodge.StartIndex {
		t.Errorf("block EndIndex = %d, want %d", got, dodge.StartIndex)
	}
}

func TestLinkResetsMemo(t *testing.T) {
	f := newFixture()
	dodge := f.d6(KindDodge, bb2.RollDodge, 1, 3, 0, 5)
	Outcomes(dodge)
	if f.ctx.Memoized() == 0 {
		t.Fatalf("Outcomes() cached nothing")
	}
	Link([]Action{dodge})
	if got := f.ctx.Memoized(); got != 0 {
		t.Errorf("Memoized() after Link = %d, want 0", got)
	}
}

func TestBlockSampling(t *testing.T) {
	tests := []struct {
		name string
		red  bool
	}{
		{"two dice", false},
		{"two red dice", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			block := f.block(1, int(bb2.Push), int(bb2.DefenderDown))
			block.RedDice = tt.red
			outcomes := Outcomes(block)
			want := outcomes.ExpectedValue()

			simple, ok := outcomes.(*dist.SimpleDistribution)
			if !ok {
				t.Fatalf("Outcomes() = %T, want *dist.SimpleDistribution", outcomes)
			}
			if got := simple.TotalWeight(); got != 36 {
				t.Errorf("TotalWeight() = %v, want 36", got)
			}

			exhaustive := 0.0
			for _, a := range blockFaces {
				for _, b := range blockFaces {
					exhaustive += block.Value([]int{int(a), int(b)}, true).ExpectedValue()
				}
			}
			if got := exhaustive / 36; !near(got, want, epsilon) {
				t.Errorf("mean Value() over all faces = %v, want %v", got, want)
			}

			r := rand.New(rand.NewSource(1))
			const n = 20000
			total := 0.0
			for range n {
				dice := []int{int(blockFaces[r.Intn(6)]), int(blockFaces[r.Intn(6)])}
				total += block.Value(dice, true).ExpectedValue()
			}
			if mean := total / n; !near(mean, want, 0.02) {
				t.Errorf("mean of %d sampled rolls = %v, want about %v", n, mean, want)
			}
		})
	}
}

func TestD6OutcomeWeights(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		roll *D6
		want float64
	}{
		{"armor", &D6{Base: f.base(KindArmor, f.defender, 1, bb2.RollArmor, 3, 4)}, 36},
		{"dodge", f.d6(KindDodge, bb2.RollDodge, 2, 4, 0, 5), 6},
		{"pickup", f.d6(KindPickup, bb2.RollPickup, 3, 3, 1, 2), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.roll.diceSums()); float64(got) != tt.want {
				t.Errorf("len(diceSums()) = %d, want %v", got, tt.want)
			}
			simple, ok := Outcomes(tt.roll).(*dist.SimpleDistribution)
			if !ok {
				t.Fatalf("Outcomes() is %T, want *dist.SimpleDistribution", Outcomes(tt.roll))
			}
			if got := simple.TotalWeight(); got != tt.want {
				t.Errorf("TotalWeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModifiedTarget(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		roll *D6
		want int
	}{
		{"plain", f.d6(KindDodge, bb2.RollDodge, 1, 4, 1, 3), 3},
		{"capped at six", f.d6(KindDodge, bb2.RollDodge, 1, 6, -3, 3), 6},
		{"floored at two", f.d6(KindGFI, bb2.RollGFI, 1, 2, 2, 3), 2},
		{"armor from the player", &D6{Base: f.base(KindArmor, f.defender, 1, bb2.RollArmor, 3, 4)}, 9},
		{"mighty blow armor", &D6{Base: f.base(KindArmor, f.defender, 1, bb2.RollArmor, 3, 4), DamageBonus: true}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.roll.ModifiedTarget(); got != tt.want {
				t.Errorf("ModifiedTarget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		rt   bb2.RollType
		want Support
	}{
		{bb2.RollBlock, Modeled},
		{bb2.RollPileOnArmor, Modeled},
		{bb2.RollFoulPenalty, Modeled},
		{bb2.RollPush, Ignored},
		{bb2.RollWrestle, Ignored},
		{bb2.RollKickoffEvent, Ignored},
		{bb2.RollHypnoticGaze, Unsupported},
		{bb2.RollBribe, Unsupported},
		{bb2.RollMultiblock, Unsupported},
		{bb2.RollType(99), Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.rt.String(), func(t *testing.T) {
			if got := Classify(tt.rt); got != tt.want {
				t.Errorf("Classify(%d) = %v, want %v", tt.rt, got, tt.want)
			}
		})
	}
}

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

func testBoard() *bb2.BoardState {
	return &bb2.BoardState{
		ListTeams: bb2.Keyed[bb2.TeamStateKey, bb2.TeamState]{Items: []bb2.TeamState{
			{
				Data:             bb2.TeamData{Name: "Home Team"},
				GameTurn:         2,
				ListPitchPlayers: bb2.Keyed[bb2.PlayerStateKey, bb2.PitchPlayer]{Items: []bb2.PitchPlayer{pitchPlayer(1, bb2.Cell{X: 5, Y: 5})}},
			},
			{
				Data:             bb2.TeamData{Name: "Away Team"},
				GameTurn:         2,
				ListPitchPlayers: bb2.Keyed[bb2.PlayerStateKey, bb2.PitchPlayer]{Items: []bb2.PitchPlayer{pitchPlayer(31, bb2.Cell{X: 6, Y: 5})}},
			},
		}},
		Ball: bb2.Ball{Cell: bb2.Cell{X: -1, Y: -1}},
	}
}

// rawResult wraps a single action result in a two step replay: a board
// snapshot followed by the action.
func rawResult(action bb2.BoardAction) (*replay.Replay, replay.RawActionResult) {
	first := &bb2.Step{BoardState: bb2.Set(*testBoard())}
	second := &bb2.Step{RulesEventBoardAction: bb2.List[bb2.BoardAction]{action}}
	r := &replay.Replay{Steps: []*bb2.Step{first, second}}
	act := &second.RulesEventBoardAction[0]
	return r, replay.RawActionResult{
		RawPosition: replay.RawPosition{Index: 1, Step: second},
		Action:      act,
		Result:      &act.Results.Items[0],
	}
}

func target(cell bb2.Cell) bb2.Order {
	return bb2.Order{
		CellFrom: bb2.Cell{X: 5, Y: 5},
		CellTo:   bb2.Keyed[bb2.CellKey, bb2.Cell]{Items: []bb2.Cell{cell}},
	}
}

func results(rs ...bb2.ActionResult) bb2.Keyed[bb2.ResultKey, bb2.ActionResult] {
	return bb2.Keyed[bb2.ResultKey, bb2.ActionResult]{Items: rs}
}

func TestFromPosition(t *testing.T) {
	blockAction := bb2.BoardAction{
		PlayerID:   intp(1),
		ActionType: intp(int(bb2.ActionBlock)),
		Order:      target(bb2.Cell{X: 6, Y: 5}),
		Results: results(bb2.ActionResult{
			RollType:     intp(int(bb2.RollBlock)),
			ResultType:   intp(int(bb2.ResultFailTeamRR)),
			Requirement:  1,
			CoachChoices: bb2.CoachChoices{ListDices: bb2.Numbers{2, 4, 2, 4}},
		}),
	}
	moveAction := bb2.BoardAction{
		PlayerID: intp(1),
		Order:    target(bb2.Cell{X: 6, Y: 6}),
		Results:  results(bb2.ActionResult{}),
	}
	gazeAction := bb2.BoardAction{
		PlayerID: intp(1),
		Order:    target(bb2.Cell{X: 6, Y: 5}),
		Results: results(bb2.ActionResult{
			RollType:     intp(int(bb2.RollHypnoticGaze)),
			CoachChoices: bb2.CoachChoices{ListDices: bb2.Numbers{3}},
		}),
	}
	pushAction := bb2.BoardAction{
		PlayerID: intp(1),
		Results:  results(bb2.ActionResult{RollType: intp(int(bb2.RollPush))}),
	}
	strayDodge := bb2.BoardAction{
		PlayerID: intp(12),
		Order:    target(bb2.Cell{X: 4, Y: 4}),
		Results: results(bb2.ActionResult{
			RollType:     intp(int(bb2.RollDodge)),
			Requirement:  3,
			CoachChoices: bb2.CoachChoices{ListDices: bb2.Numbers{4}},
		}),
	}

	t.Run("block", func(t *testing.T) {
		r, pos := rawResult(blockAction)
		a, err := FromPosition(NewContext(Config{}), r, 7, pos)
		if err != nil {
			t.Fatalf("FromPosition() error = %v", err)
		}
		b, ok := a.(*Block)
		if !ok {
			t.Fatalf("FromPosition() = %T, want *Block", a)
		}
		if len(b.Dice) != 2 || b.Dice[0] != 2 || b.Dice[1] != 4 {
			t.Errorf("Dice = %v, want [2 4]", b.Dice)
		}
		if b.Defender == nil || b.Defender.ID != 31 {
			t.Errorf("Defender = %v, want player 31", b.Defender)
		}
		if b.RedDice || b.Ignore() || b.StartIndex != 7 {
			t.Errorf("RedDice = %v, Ignore() = %v, StartIndex = %d", b.RedDice, b.Ignore(), b.StartIndex)
		}
	})

	t.Run("move", func(t *testing.T) {
		r, pos := rawResult(moveAction)
		a, err := FromPosition(NewContext(Config{}), r, 1, pos)
		if err != nil {
			t.Fatalf("FromPosition() error = %v", err)
		}
		m, ok := a.(*Move)
		if !ok {
			t.Fatalf("FromPosition() = %T, want *Move", a)
		}
		if m.To != (bb2.Cell{X: 6, Y: 6}) {
			t.Errorf("To = %v, want (6, 6)", m.To)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		r, pos := rawResult(gazeAction)
		a, err := FromPosition(NewContext(Config{}), r, 1, pos)
		if err != nil {
			t.Fatalf("FromPosition() error = %v", err)
		}
		u, ok := a.(*Unknown)
		if !ok {
			t.Fatalf("FromPosition() = %T, want *Unknown", a)
		}
		if u.Label != bb2.RollHypnoticGaze.String() || !u.Ignore() {
			t.Errorf("Unknown = %q ignored %v", u.Label, u.Ignore())
		}
	})

	t.Run("ignored", func(t *testing.T) {
		r, pos := rawResult(pushAction)
		a, err := FromPosition(NewContext(Config{}), r, 1, pos)
		if err != nil || a != nil {
			t.Errorf("FromPosition() = %v, %v, want nil, nil", a, err)
		}
	})

	t.Run("missing player", func(t *testing.T) {
		r, pos := rawResult(strayDodge)
		_, err := FromPosition(NewContext(Config{}), r, 1, pos)
		if !errors.Is(err, ErrMissingPlayer) {
			t.Errorf("FromPosition() error = %v, want %v", err, ErrMissingPlayer)
		}
	})
}
