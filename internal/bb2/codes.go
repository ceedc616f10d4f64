package bb2

import "fmt"

// Numeric codes used by the replay format. Values follow the replay files
// the decoder was validated against.

type ActionType int

const (
	ActionMove           ActionType = 0
	ActionBlock          ActionType = 1
	ActionBlitz          ActionType = 2
	ActionPass           ActionType = 3
	ActionHandoff        ActionType = 4
	ActionFoul           ActionType = 5
	ActionTakeDamage     ActionType = 6
	ActionKickoffTarget  ActionType = 7
	ActionKickoffScatter ActionType = 8
	ActionCatch          ActionType = 9
	ActionTouchBack      ActionType = 10
	ActionStandUp        ActionType = 11
	ActionWakeUp         ActionType = 12
	ActionThrowTeamMate  ActionType = 13
	ActionLanding        ActionType = 14
	ActionActivatePlayer ActionType = 18
	ActionInitialWeather ActionType = 41
	ActionFansNumber     ActionType = 42
)

type RollType int

const (
	RollGFI                   RollType = 1
	RollDodge                 RollType = 2
	RollArmor                 RollType = 3
	RollInjury                RollType = 4
	RollBlock                 RollType = 5
	RollStandUp               RollType = 6
	RollPickup                RollType = 7
	RollCasualty              RollType = 8
	RollCatch                 RollType = 9
	RollKickoffScatter        RollType = 10
	RollThrowIn               RollType = 11
	RollPass                  RollType = 12
	RollPush                  RollType = 13
	RollFollowUp              RollType = 14
	RollFoulPenalty           RollType = 15
	RollInterception          RollType = 16
	RollWakeUp                RollType = 17
	RollTouchBack             RollType = 19
	RollBoneHead              RollType = 20
	RollReallyStupid          RollType = 21
	RollWildAnimal            RollType = 22
	RollLoner                 RollType = 23
	RollLanding               RollType = 24
	RollRegeneration          RollType = 25
	RollInaccuratePassScatter RollType = 26
	RollAlwaysHungry          RollType = 27
	RollEatTeammate           RollType = 28
	RollDauntless             RollType = 29
	RollSafeThrow             RollType = 30
	RollJumpUp                RollType = 31
	RollShadowing             RollType = 32
	RollStab                  RollType = 34
	RollLeap                  RollType = 36
	RollFoulAppearance        RollType = 37
	RollTentacles             RollType = 38
	RollChainsawKickback      RollType = 39
	RollTakeRoot              RollType = 40
	RollBallAndChain          RollType = 41
	RollHailMaryPass          RollType = 42
	RollDivingTackle          RollType = 44
	RollPro                   RollType = 45
	RollHypnoticGaze          RollType = 46
	RollAnimosity             RollType = 49
	RollBloodlust             RollType = 50
	RollBite                  RollType = 51
	RollBribe                 RollType = 52
	RollHalflingChef          RollType = 53
	RollFireball              RollType = 54
	RollLightningBolt         RollType = 55
	RollThrowTeammate         RollType = 56
	RollMultiblock            RollType = 57
	RollKickoffGust           RollType = 58
	RollPileOnArmor           RollType = 59
	RollPileOnInjury          RollType = 60
	RollWrestle               RollType = 61
	RollDodgePick             RollType = 62
	RollStandFirm             RollType = 63
	RollJuggernaut            RollType = 64
	RollStandFirm2            RollType = 65
	RollRaiseDead             RollType = 66
	RollFans                  RollType = 69
	RollWeather               RollType = 70
	RollSwelteringHeat        RollType = 71
	RollBombKD                RollType = 72
	RollChainsawArmor         RollType = 73

	// RollKickoffEvent is not a replay code. Kickoff table rolls arrive
	// through RulesEventKickOffTable and are tagged with it internally.
	RollKickoffEvent RollType = -1
)

var rollNames = map[RollType]string{
	RollGFI: "GFI", RollDodge: "Dodge", RollArmor: "Armor", RollInjury: "Injury",
	RollBlock: "Block", RollStandUp: "Stand Up", RollPickup: "Pickup", RollCasualty: "Casualty",
	RollCatch: "Catch", RollKickoffScatter: "Kickoff Scatter", RollThrowIn: "Throw In",
	RollPass: "Pass", RollPush: "Push", RollFollowUp: "Follow Up", RollFoulPenalty: "Foul Penalty",
	RollInterception: "Interception", RollWakeUp: "Wake Up", RollTouchBack: "Touchback",
	RollBoneHead: "Bone Head", RollReallyStupid: "Really Stupid", RollWildAnimal: "Wild Animal",
	RollLoner: "Loner", RollLanding: "Landing", RollRegeneration: "Regeneration",
	RollInaccuratePassScatter: "Inaccurate Pass Scatter", RollAlwaysHungry: "Always Hungry",
	RollEatTeammate: "Eat Teammate", RollDauntless: "Dauntless", RollSafeThrow: "Safe Throw",
	RollJumpUp: "Jump Up", RollShadowing: "Shadowing", RollStab: "Stab", RollLeap: "Leap",
	RollFoulAppearance: "Foul Appearance", RollTentacles: "Tentacles",
	RollChainsawKickback: "Chainsaw Kickback", RollTakeRoot: "Take Root",
	RollBallAndChain: "Ball And Chain", RollHailMaryPass: "Hail Mary Pass",
	RollDivingTackle: "Diving Tackle", RollPro: "Pro", RollHypnoticGaze: "Hypnotic Gaze",
	RollAnimosity: "Animosity", RollBloodlust: "Bloodlust", RollBite: "Bite", RollBribe: "Bribe",
	RollHalflingChef: "Halfling Chef", RollFireball: "Fireball", RollLightningBolt: "Lightning Bolt",
	RollThrowTeammate: "Throw Teammate", RollMultiblock: "Multiblock", RollKickoffGust: "Kickoff Gust",
	RollPileOnArmor: "Pile On (Armor)", RollPileOnInjury: "Pile On (Injury)", RollWrestle: "Wrestle",
	RollDodgePick: "Dodge Pick", RollStandFirm: "Stand Firm", RollJuggernaut: "Juggernaut",
	RollStandFirm2: "Stand Firm", RollRaiseDead: "Raise Dead", RollFans: "Fans",
	RollWeather: "Weather", RollSwelteringHeat: "Sweltering Heat", RollBombKD: "Bomb Knockdown",
	RollChainsawArmor: "Chainsaw Armor", RollKickoffEvent: "Kickoff",
}

func (r RollType) String() string {
	if name, ok := rollNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Roll %d", int(r))
}

type RollStatus int

const (
	RollStatusNone          RollStatus = 0
	RerollTaken             RollStatus = 1
	RerollNotTaken          RollStatus = 2
	RerollWithSkill         RollStatus = 3
	RerollWithSkillChoice   RollStatus = 4
	RerollWithFailedOutcome RollStatus = 5
)

// IsReroll reports whether the roll was itself a reroll.
func (s RollStatus) IsReroll() bool {
	switch s {
	case RerollTaken, RerollWithSkill, RerollWithSkillChoice, RerollWithFailedOutcome:
		return true
	}
	return false
}

type ResultType int

const (
	ResultPassed      ResultType = 0
	ResultFailTeamRR  ResultType = 1
	ResultFailSkillRR ResultType = 2
	ResultFailed      ResultType = 3
)

type SubResultType int

const (
	SubResultNone                 SubResultType = 0
	SubResultArmorNoBreak         SubResultType = 1
	SubResultCasualty             SubResultType = 2
	SubResultFend                 SubResultType = 3
	SubResultChoiceUseDodgeTackle SubResultType = 4
	SubResultChoiceUseDodgeSkill  SubResultType = 5
)

type Situation int

const (
	SituationActive   Situation = 0
	SituationReserves Situation = 1
	SituationKO       Situation = 2
	SituationCasualty Situation = 3
	SituationSentOff  Situation = 4
)

type Status int

const (
	StatusStanding Status = 0
	StatusProne    Status = 1
	StatusStunned  Status = 2
)

// BlockDie is one face of a block die.
type BlockDie int

const (
	AttackerDown     BlockDie = 0
	BothDown         BlockDie = 1
	Push             BlockDie = 2
	DefenderStumbles BlockDie = 3
	DefenderDown     BlockDie = 4
)

// BlockFaces lists the six faces of a block die.
var BlockFaces = [6]BlockDie{AttackerDown, BothDown, Push, Push, DefenderStumbles, DefenderDown}

func (d BlockDie) String() string {
	switch d {
	case AttackerDown:
		return "Attacker Down"
	case BothDown:
		return "Both Down"
	case Push:
		return "Push"
	case DefenderStumbles:
		return "Defender Stumbles"
	case DefenderDown:
		return "Defender Down"
	}
	return fmt.Sprintf("Block Die %d", int(d))
}

// Short is the abbreviation shown in compact descriptions.
func (d BlockDie) Short() string {
	switch d {
	case AttackerDown:
		return "AD"
	case BothDown:
		return "BD"
	case Push:
		return "PU"
	case DefenderStumbles:
		return "DS"
	case DefenderDown:
		return "DD"
	}
	return "?"
}

// Weather returns the weather for a 2D6 total.
func Weather(total int) string {
	switch {
	case total <= 2:
		return "Sweltering Heat"
	case total == 3:
		return "Very Sunny"
	case total <= 10:
		return "Nice"
	case total == 11:
		return "Pouring Rain"
	default:
		return "Blizzard"
	}
}

// KickoffEvent returns the kickoff table result for a 2D6 total.
func KickoffEvent(total int) string {
	switch total {
	case 2:
		return "Get the Ref"
	case 3:
		return "Riot"
	case 4:
		return "Perfect Defence"
	case 5:
		return "High Kick"
	case 6:
		return "Cheering Fans"
	case 7:
		return "Changing Weather"
	case 8:
		return "Brilliant Coaching"
	case 9:
		return "Quick Snap"
	case 10:
		return "Blitz"
	case 11:
		return "Throw a Rock"
	case 12:
		return "Pitch Invasion"
	}
	return fmt.Sprintf("Kickoff %d", total)
}

// CasualtyName returns the casualty table entry for a D68 result.
func CasualtyName(roll int) string {
	switch {
	case roll < 40:
		return "Badly Hurt"
	case roll < 50:
		return "Miss Next Game"
	case roll <= 52:
		return "Niggling Injury"
	case roll <= 54:
		return "-MA"
	case roll <= 56:
		return "-AV"
	case roll == 57:
		return "-AG"
	case roll == 58:
		return "-ST"
	default:
		return "Dead"
	}
}

// HomeSide and AwaySide index the two teams in board states.
const (
	HomeSide = 0
	AwaySide = 1
)

// PlayerSide returns the side a player id belongs to. Home players are
// numbered below 30.
func PlayerSide(id int) int {
	if id < 30 {
		return HomeSide
	}
	return AwaySide
}
