// Package bb2 holds the decoded Blood Bowl 2 replay records and the helpers
// that normalize their loosely shaped fields.
package bb2

import (
	"encoding/json"
)

type Document struct {
	Replay Replay `json:"Replay"`
}

type Replay struct {
	ReplayStep List[Step] `json:"ReplayStep"`
	Filename   string     `json:"filename,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// Step is one ReplayStep element. Each step carries some subset of the
// payload fields below.
type Step struct {
	GameInfos                            Field[GameInfos]          `json:"GameInfos"`
	RulesEventGameFinished               Field[GameFinished]       `json:"RulesEventGameFinished"`
	BoardState                           Field[BoardState]         `json:"BoardState"`
	RulesEventSetUpAction                Field[SetUpAction]        `json:"RulesEventSetUpAction"`
	RulesEventSetUpConfiguration         Field[SetUpConfiguration] `json:"RulesEventSetUpConfiguration"`
	RulesEventWaitingRequest             Field[WaitingRequest]     `json:"RulesEventWaitingRequest"`
	RulesEventKickOffChoice              Field[KickOffChoice]      `json:"RulesEventKickOffChoice"`
	RulesEventForcedDices                Field[json.RawMessage]    `json:"RulesEventForcedDices"`
	RulesEventCoachChoice                Field[json.RawMessage]    `json:"RulesEventCoachChoice"`
	RulesEventSpecialAction              Field[json.RawMessage]    `json:"RulesEventSpecialAction"`
	RulesEventKickOffEventCancelled      Field[KickOffCancelled]   `json:"RulesEventKickOffEventCancelled"`
	RulesEventLoadGame                   Field[json.RawMessage]    `json:"RulesEventLoadGame"`
	RulesEventEndTurn                    Field[EndTurn]            `json:"RulesEventEndTurn"`
	RulesEventKickOffTable               Field[KickOffTable]       `json:"RulesEventKickOffTable"`
	RulesEventBoardAction                List[BoardAction]         `json:"RulesEventBoardAction"`
	RulesEventAddInducementSkill         Field[AddInducementSkill] `json:"RulesEventAddInducementSkill"`
	RulesEventSetGeneratedPersonnalities Field[json.RawMessage]    `json:"RulesEventSetGeneratedPersonnalities"`
	RulesEventApplyInducements           Field[json.RawMessage]    `json:"RulesEventApplyInducements"`
	RulesEventAddMercenary               List[AddMercenary]        `json:"RulesEventAddMercenary"`
	RulesEventAddInducement              Field[json.RawMessage]    `json:"RulesEventAddInducement"`
	RulesEventInducementsInfos           Field[json.RawMessage]    `json:"RulesEventInducementsInfos"`
	RulesEventRemoveInducement           Field[json.RawMessage]    `json:"RulesEventRemoveInducement"`
}

// Board returns the step's board snapshot, or nil.
func (s *Step) Board() *BoardState {
	return s.BoardState.Value
}

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	*c = Cell{}
	if isEmpty(data) {
		return nil
	}
	type plain Cell
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Cell(p)
	return nil
}

type GameInfos struct {
	NameStadium    Text         `json:"NameStadium"`
	Stadium        Text         `json:"Stadium"`
	StructStadium  Text         `json:"StructStadium"`
	RowLeague      RowLeague    `json:"RowLeague"`
	RowCompetition RowLeague    `json:"RowCompetition"`
	CoachesInfos   CoachesInfos `json:"CoachesInfos"`
}

type RowLeague struct {
	Name Text `json:"Name"`
}

type CoachesInfos struct {
	CoachInfos List[CoachInfo] `json:"CoachInfos"`
}

type CoachInfo struct {
	UserID Text `json:"UserId"`
	Slot   int  `json:"Slot"`
}

type GameFinished struct {
	MatchResult MatchResult `json:"MatchResult"`
}

type MatchResult struct {
	Row MatchRow `json:"Row"`
}

type MatchRow struct {
	HomeScore int  `json:"HomeScore"`
	AwayScore int  `json:"AwayScore"`
	Finished  Text `json:"Finished"`
}

type BoardState struct {
	ListTeams   Keyed[TeamStateKey, TeamState] `json:"ListTeams"`
	Ball        Ball                           `json:"Ball"`
	ActiveTeam  int                            `json:"ActiveTeam"`
	KickOffTeam int                            `json:"KickOffTeam"`
}

// Team returns the team state for a side index, or nil.
func (b *BoardState) Team(side int) *TeamState {
	if side < 0 || side >= len(b.ListTeams.Items) {
		return nil
	}
	return &b.ListTeams.Items[side]
}

type Ball struct {
	Cell   Cell `json:"Cell"`
	IsHeld int  `json:"IsHeld"`
}

type TeamState struct {
	Data             TeamData                           `json:"Data"`
	ListPitchPlayers Keyed[PlayerStateKey, PitchPlayer] `json:"ListPitchPlayers"`
	GameTurn         int                                `json:"GameTurn"`
	BlitzerID        int                                `json:"BlitzerId"`
	Fame             int                                `json:"Fame"`
	Babes            int                                `json:"Babes"`
	Reroll           int                                `json:"Reroll"`
}

type TeamData struct {
	Name   Text `json:"Name"`
	TeamID int  `json:"TeamId"`
	IDRace int  `json:"IdRace"`
	Logo   Text `json:"Logo"`
	Value  int  `json:"Value"`
}

type PitchPlayer struct {
	ID             int        `json:"Id"`
	Data           PlayerData `json:"Data"`
	Cell           Cell       `json:"Cell"`
	Situation      Situation  `json:"Situation"`
	Status         Status     `json:"Status"`
	CanAct         int        `json:"CanAct"`
	Disabled       int        `json:"Disabled"`
	ListUsedSkills Numbers    `json:"ListUsedSkills"`
	ListCasualties Numbers    `json:"ListCasualties"`
}

type PlayerData struct {
	ID            int     `json:"Id"`
	Name          Text    `json:"Name"`
	Number        int     `json:"Number"`
	IDPlayerTypes int     `json:"IdPlayerTypes"`
	ListSkills    Numbers `json:"ListSkills"`
	Ma            int     `json:"Ma"`
	St            int     `json:"St"`
	Ag            int     `json:"Ag"`
	Av            int     `json:"Av"`
	Value         int     `json:"Value"`
}

type SetUpAction struct {
	PlayerPosition Cell `json:"PlayerPosition"`
	NewPosition    Cell `json:"NewPosition"`
	Substitute     int  `json:"Substitute"`
}

type SetUpConfiguration struct {
	ListPlayersPositions PlayersPositions `json:"ListPlayersPositions"`
}

type PlayersPositions struct {
	PlayerPosition List[PlayerPosition] `json:"PlayerPosition"`
}

type PlayerPosition struct {
	PlayerID int  `json:"PlayerId"`
	Position Cell `json:"Position"`
}

type WaitingRequest struct {
	ConcernedTeam int `json:"ConcernedTeam"`
}

type KickOffChoice struct {
	ChosingTeam int `json:"ChosingTeam"`
	KickOffTeam int `json:"KickOffTeam"`
}

type KickOffCancelled struct {
	EventCancelled int `json:"EventCancelled"`
}

type EndTurn struct {
	Reason   int `json:"Reason"`
	NewDrive int `json:"NewDrive"`
}

type KickOffTable struct {
	ListDice     Numbers                           `json:"ListDice"`
	Event        int                               `json:"Event"`
	EventResults Keyed[MessageKey, KickOffMessage] `json:"EventResults"`
}

// KickOffMessage is a StringMessage whose MessageData the decoder has
// already expanded from its embedded XML.
type KickOffMessage struct {
	Name        Text        `json:"Name"`
	MessageData MessageData `json:"MessageData"`
}

type MessageData struct {
	RulesEventPlayerInvaded Field[PlayerInvaded] `json:"RulesEventPlayerInvaded"`
}

type PlayerInvaded struct {
	PlayerID int `json:"PlayerId"`
	Die      int `json:"Die"`
	Stunned  int `json:"Stunned"`
}

type BoardAction struct {
	PlayerID   *int                           `json:"PlayerId"`
	ActionType *int                           `json:"ActionType"`
	Order      Order                          `json:"Order"`
	Results    Keyed[ResultKey, ActionResult] `json:"Results"`
}

// Player returns the acting player id, or 0 when absent.
func (a *BoardAction) Player() int {
	if a.PlayerID == nil {
		return 0
	}
	return *a.PlayerID
}

// Type returns the declared action type. Actions without one are moves.
func (a *BoardAction) Type() (ActionType, bool) {
	if a.ActionType == nil {
		return ActionMove, false
	}
	return ActionType(*a.ActionType), true
}

type Order struct {
	CellFrom Cell                 `json:"CellFrom"`
	CellTo   Keyed[CellKey, Cell] `json:"CellTo"`
}

// Target returns the first destination cell.
func (o *Order) Target() (Cell, bool) {
	if len(o.CellTo.Items) == 0 {
		return Cell{}, false
	}
	return o.CellTo.Items[0], true
}

type ActionResult struct {
	RollType         *int                             `json:"RollType"`
	RollStatus       RollStatus                       `json:"RollStatus"`
	ResultType       *int                             `json:"ResultType"`
	SubResultType    SubResultType                    `json:"SubResultType"`
	Requirement      int                              `json:"Requirement"`
	IsOrderCompleted *int                             `json:"IsOrderCompleted"`
	ListModifiers    Keyed[ModifierKey, DiceModifier] `json:"ListModifiers"`
	CoachChoices     CoachChoices                     `json:"CoachChoices"`
}

// Roll returns the result's roll type, if any.
func (r *ActionResult) Roll() (RollType, bool) {
	if r.RollType == nil {
		return 0, false
	}
	return RollType(*r.RollType), true
}

// Result returns the result type and whether the field was present.
func (r *ActionResult) Result() (ResultType, bool) {
	if r.ResultType == nil {
		return 0, false
	}
	return ResultType(*r.ResultType), true
}

func (r *ActionResult) OrderCompleted() bool {
	return r.IsOrderCompleted != nil && *r.IsOrderCompleted != 0
}

type CoachChoices struct {
	ConcernedTeam int                            `json:"ConcernedTeam"`
	ListDices     Numbers                        `json:"ListDices"`
	ListSkills    Keyed[SkillInfoKey, SkillInfo] `json:"ListSkills"`
}

type DiceModifier struct {
	Cell  Cell `json:"Cell"`
	Skill int  `json:"Skill"`
	Type  int  `json:"Type"`
	Value int  `json:"Value"`
}

type SkillInfo struct {
	SkillID  Skill `json:"SkillId"`
	PlayerID int   `json:"PlayerId"`
}

type AddInducementSkill struct {
	MercenaryID int   `json:"MercenaryId"`
	SkillID     Skill `json:"SkillId"`
}

type AddMercenary struct {
	MercenaryID int `json:"MercenaryId"`
	TeamID      int `json:"TeamId"`
}
