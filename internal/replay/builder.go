package replay

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cpennington/dicedornot/internal/bb2"
)

// ErrUnknownDamage is returned when a damage result has a roll type the
// builder cannot classify.
var ErrUnknownDamage = errors.New("unknown damage result")

const finishedLayout = "2006-01-02 15:04:05"

type builder struct {
	r       *Replay
	queue   []IndexedStep
	halted  bool
	kicking Side
}

// Build converts the raw steps into a Replay. Steps the builder does not
// support halt the build: that step and everything after it are left in
// Replay.Unhandled. Only unclassifiable damage is reported as an error.
func Build(raw *bb2.Replay) (*Replay, error) {
	r := &Replay{
		Teams:      ByTeam[*Team]{Home: newTeam(), Away: newTeam()},
		Stadium:    Stadium{Name: "N/A"},
		Checkpoint: &Checkpoint{Players: map[int]PlayerState{}},
		Metadata: Metadata{
			Filename: raw.Filename,
			URL:      raw.URL,
		},
	}

	b := &builder{r: r}
	r.GameLength = 16
	for i := range raw.ReplayStep {
		step := &raw.ReplayStep[i]
		r.Steps = append(r.Steps, step)
		b.queue = append(b.queue, IndexedStep{Index: i, Step: step})
		if board := step.Board(); board != nil {
			for _, team := range board.ListTeams.Items {
				r.GameLength = max(r.GameLength, team.GameTurn)
			}
		}
	}

	b.processUnorderedSteps()
	if err := b.processSteps(); err != nil {
		return nil, err
	}
	r.Unhandled = b.queue
	return r, nil
}

func newTeam() *Team {
	return &Team{
		Name:        "N/A",
		Coach:       "N/A",
		Players:     map[int]*Player{},
		Mercenaries: map[int]*Player{},
	}
}

func (b *builder) processUnorderedSteps() {
	for _, is := range b.queue {
		step := is.Step
		switch {
		case step.RulesEventGameFinished.Value != nil:
			b.handleGameFinished(step.RulesEventGameFinished.Value)
		case step.GameInfos.Value != nil:
			b.handleGameInfo(step)
		}
	}
}

func (b *builder) processSteps() error {
	for !b.halted && len(b.queue) > 0 {
		is := b.queue[0]
		b.queue = b.queue[1:]
		step := is.Step

		switch {
		case step.RulesEventGameFinished.Present, step.GameInfos.Present:
			// handled out of order
		case step.RulesEventAddInducementSkill.Present:
			b.handleAddInducementSkill(step)
		case step.RulesEventSetUpAction.Present:
			b.handleSetUpAction(step)
		case step.RulesEventSetUpConfiguration.Present:
			b.handleSetUpConfiguration(step)
		case step.RulesEventSetGeneratedPersonnalities.Present:
		case step.RulesEventApplyInducements.Present,
			len(step.RulesEventAddMercenary) > 0,
			step.RulesEventAddInducement.Present,
			step.RulesEventInducementsInfos.Present:
			b.handleAddInducement(step)
		case step.BoardState.Present:
			if err := b.handleGameTurnStep(is); err != nil {
				return fmt.Errorf("step %d: %w", is.Index, err)
			}
		default:
			slog.Error("Unhandled step", "index", is.Index)
		}

		if board := step.Board(); board != nil {
			b.captureCheckpoint(board)
		}
	}
	return nil
}

func (b *builder) cantHandle(is IndexedStep, reason string) {
	slog.Warn("Couldn't handle step", "index", is.Index, "reason", reason)
	b.queue = append([]IndexedStep{is}, b.queue...)
	b.halted = true
	b.r.Halt = &Halt{Reason: reason, Step: is.Index}
}

func (b *builder) captureCheckpoint(board *bb2.BoardState) {
	cp := &Checkpoint{Players: map[int]PlayerState{}}
	for _, team := range board.ListTeams.Items {
		for _, p := range team.ListPitchPlayers.Items {
			cp.Players[p.ID] = PlayerState{
				UsedSkills: p.ListUsedSkills,
				CanAct:     p.CanAct == 1,
				Status:     p.Status,
				Disabled:   p.Disabled == 1,
				Blitzer:    team.BlitzerID == p.ID,
				Situation:  p.Situation,
				Casualties: p.ListCasualties,
				Cell:       p.Cell,
			}
		}
	}
	b.r.Checkpoint = cp
	b.kicking = SideOf(board.KickOffTeam)
}

func (b *builder) handleGameFinished(finished *bb2.GameFinished) {
	row := finished.MatchResult.Row
	b.r.FinalScore = ByTeam[int]{Home: row.HomeScore, Away: row.AwayScore}
	if row.Finished == "" {
		return
	}
	played, err := time.Parse(finishedLayout, row.Finished.String())
	if err != nil {
		slog.Debug("Unparseable match date", "finished", row.Finished, "error", err)
		return
	}
	b.r.Metadata.DatePlayed = played
}

func (b *builder) handleGameInfo(step *bb2.Step) {
	info := step.GameInfos.Value
	b.r.Stadium = Stadium{
		Name:        bb2.CleanName(info.NameStadium.String()),
		Type:        info.Stadium.String(),
		Enhancement: info.StructStadium.String(),
	}
	if info.RowLeague.Name != "" {
		b.r.Metadata.League = bb2.CleanName(info.RowLeague.Name.String())
	}

	board := step.Board()
	for _, side := range []Side{Home, Away} {
		team := b.r.Teams.Get(side)
		if int(side) < len(info.CoachesInfos.CoachInfos) {
			team.Coach = bb2.CleanName(info.CoachesInfos.CoachInfos[side].UserID.String())
		}
		if board == nil {
			continue
		}
		state := board.Team(int(side))
		if state == nil {
			continue
		}
		team.Race = state.Data.IDRace
		team.Name = bb2.CleanName(state.Data.Name.String())
		team.Logo = state.Data.Logo.String()
		team.Players = map[int]*Player{}
		for _, p := range state.ListPitchPlayers.Items {
			team.Players[p.ID] = playerDefinition(p)
		}
	}
	if board == nil {
		slog.Warn("Game info without board state, rosters are empty")
	}
}

func playerDefinition(p bb2.PitchPlayer) *Player {
	skills := make([]bb2.Skill, 0, len(p.Data.ListSkills))
	for _, s := range p.Data.ListSkills {
		skills = append(skills, bb2.Skill(s))
	}
	return &Player{
		ID:     NewPlayerID(p.ID),
		Name:   bb2.CleanName(p.Data.Name.String()),
		Type:   p.Data.IDPlayerTypes,
		Skills: skills,
		Stats: Stats{
			MA: p.Data.Ma,
			ST: p.Data.St,
			AG: p.Data.Ag,
			AV: p.Data.Av,
		},
		Value: p.Data.Value,
	}
}

func (b *builder) handleAddInducementSkill(step *bb2.Step) {
	add := step.RulesEventAddInducementSkill.Value
	if add == nil {
		return
	}
	team := b.r.Teams.Get(SideOf(bb2.PlayerSide(add.MercenaryID)))
	merc, ok := team.Mercenaries[add.MercenaryID]
	if !ok {
		slog.Warn("Unable to find mercenary to add skills to", "player", add.MercenaryID, "skill", add.SkillID)
		merc = team.Players[add.MercenaryID]
	}
	if merc == nil {
		return
	}
	merc.Skills = append(merc.Skills, add.SkillID)
}

func (b *builder) handleAddInducement(step *bb2.Step) {
	board := step.Board()
	for _, merc := range step.RulesEventAddMercenary {
		if board == nil {
			slog.Warn("Mercenary added without board state", "player", merc.MercenaryID)
			continue
		}
		side := bb2.PlayerSide(merc.MercenaryID)
		state := board.Team(side)
		if state == nil {
			continue
		}
		for _, p := range state.ListPitchPlayers.Items {
			if p.ID != merc.MercenaryID {
				continue
			}
			player := playerDefinition(p)
			team := b.r.Teams.Get(SideOf(side))
			team.Players[p.ID] = player
			team.Mercenaries[p.ID] = player
		}
	}
}

func (b *builder) lastDrive() *Drive {
	if len(b.r.Drives) == 0 {
		return b.addDrive()
	}
	return b.r.Drives[len(b.r.Drives)-1]
}

func (b *builder) addDrive() *Drive {
	drive := &Drive{
		Checkpoint:  b.r.Checkpoint,
		KickingTeam: b.kicking,
		Kickoff: Kickoff{
			Event:  &KickoffEvent{},
			Target: OffPitch,
		},
	}
	if n := len(b.r.Drives); n > 0 {
		drive.InitialScore = b.r.Drives[n-1].FinalScore
	}
	drive.FinalScore = drive.InitialScore
	b.r.Drives = append(b.r.Drives, drive)
	return drive
}

func concernedSide(step *bb2.Step) Side {
	if req := step.RulesEventWaitingRequest.Value; req != nil {
		return SideOf(req.ConcernedTeam)
	}
	return Home
}

func (b *builder) addSetup(side Side, moves map[int]Cell) {
	drive := b.lastDrive()
	setups := drive.Setups.Get(side)
	setups = append(setups, SetupAction{
		Checkpoint: b.r.Checkpoint,
		Side:       side,
		Moves:      moves,
	})
	drive.Setups.Set(side, setups)
}

func (b *builder) handleSetUpAction(step *bb2.Step) {
	action := step.RulesEventSetUpAction.Value
	if action == nil {
		return
	}
	moved, ok := b.r.Checkpoint.At(action.PlayerPosition)
	if !ok {
		slog.Warn("Couldn't find moved player", "cell", action.PlayerPosition)
		return
	}
	moves := map[int]Cell{moved: action.NewPosition}
	if action.Substitute != 0 {
		moves[action.Substitute] = action.PlayerPosition
	}
	b.addSetup(concernedSide(step), moves)
}

func (b *builder) handleSetUpConfiguration(step *bb2.Step) {
	config := step.RulesEventSetUpConfiguration.Value
	if config == nil {
		return
	}
	moves := map[int]Cell{}
	for _, pos := range config.ListPlayersPositions.PlayerPosition {
		moves[pos.PlayerID] = pos.Position
	}
	b.addSetup(concernedSide(step), moves)
}

func (b *builder) handleGameTurnStep(is IndexedStep) error {
	step := is.Step
	if choice := step.RulesEventKickOffChoice.Value; choice != nil {
		b.r.CoinFlipWinner = SideOf(choice.ChosingTeam)
		b.r.InitialKickingTeam = SideOf(choice.KickOffTeam)
		b.kicking = b.r.InitialKickingTeam
		b.lastDrive().KickingTeam = b.kicking
	}
	if step.RulesEventForcedDices.Value != nil {
		b.cantHandle(is, "Can't handle RulesEventForcedDices")
		return nil
	}
	if step.RulesEventCoachChoice.Value != nil {
		b.cantHandle(is, "Can't handle RulesEventCoachChoice")
		return nil
	}
	if step.RulesEventSpecialAction.Value != nil {
		b.cantHandle(is, "Can't handle RulesEventSpecialAction")
		return nil
	}
	if cancelled := step.RulesEventKickOffEventCancelled.Value; cancelled != nil {
		b.lastDrive().Kickoff.Event = &KickoffEvent{
			Dice:      []int{cancelled.EventCancelled},
			Cancelled: true,
		}
	}
	if step.RulesEventLoadGame.Value != nil {
		b.cantHandle(is, "Can't handle RulesEventLoadGame")
		return nil
	}
	if end := step.RulesEventEndTurn.Value; end != nil && end.NewDrive != 0 {
		b.addDrive()
	}
	if table := step.RulesEventKickOffTable.Value; table != nil {
		b.lastDrive().Kickoff.Event = &KickoffEvent{Dice: table.ListDice}
	}
	if len(step.RulesEventBoardAction) > 0 {
		converters := make([]converter, 0, len(step.RulesEventBoardAction))
		for i := range step.RulesEventBoardAction {
			convert, ok := converterFor(&step.RulesEventBoardAction[i])
			if !ok {
				b.cantHandle(is, "Not all action types can be converted")
				return nil
			}
			converters = append(converters, convert)
		}
		for i, convert := range converters {
			if err := convert(b, step, &step.RulesEventBoardAction[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
