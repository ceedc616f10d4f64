package bb2

import "fmt"

type Skill int

const (
	SkillStripBall          Skill = 0
	SkillIncreaseStrength   Skill = 1
	SkillIncreaseAgility    Skill = 2
	SkillIncreaseMovement   Skill = 3
	SkillIncreaseArmour     Skill = 4
	SkillCatch              Skill = 5
	SkillDodge              Skill = 6
	SkillSprint             Skill = 7
	SkillPassBlock          Skill = 8
	SkillFoulAppearance     Skill = 9
	SkillLeap               Skill = 10
	SkillExtraArms          Skill = 11
	SkillMightyBlow         Skill = 12
	SkillLeader             Skill = 13
	SkillHorns              Skill = 14
	SkillTwoHeads           Skill = 15
	SkillStandFirm          Skill = 16
	SkillAlwaysHungry       Skill = 17
	SkillRegeneration       Skill = 18
	SkillTakeRoot           Skill = 19
	SkillAccurate           Skill = 20
	SkillBreakTackle        Skill = 21
	SkillSneakyGit          Skill = 22
	SkillChainsaw           Skill = 23
	SkillDauntless          Skill = 24
	SkillDirtyPlayer        Skill = 25
	SkillDivingCatch        Skill = 26
	SkillDumpOff            Skill = 27
	SkillBlock              Skill = 28
	SkillBoneHead           Skill = 29
	SkillVeryLongLegs       Skill = 30
	SkillDisturbingPresence Skill = 31
	SkillDivingTackle       Skill = 32
	SkillFend               Skill = 33
	SkillFrenzy             Skill = 34
	SkillGrab               Skill = 35
	SkillGuard              Skill = 36
	SkillHailMaryPass       Skill = 37
	SkillJuggernaut         Skill = 38
	SkillJumpUp             Skill = 39
	SkillKick               Skill = 40
	SkillClaw               Skill = 41
	SkillBigHand            Skill = 42
	SkillStab               Skill = 43
	SkillLoner              Skill = 44
	SkillNervesOfSteel      Skill = 45
	SkillNoHands            Skill = 46
	SkillPass               Skill = 47
	SkillPilingOn           Skill = 48
	SkillPrehensileTail     Skill = 49
	SkillPro                Skill = 50
	SkillReallyStupid       Skill = 51
	SkillRightStuff         Skill = 52
	SkillSafeThrow          Skill = 53
	SkillSecretWeapon       Skill = 54
	SkillShadowing          Skill = 55
	SkillSideStep           Skill = 56
	SkillTackle             Skill = 57
	SkillStrongArm          Skill = 58
	SkillStunty             Skill = 59
	SkillSureFeet           Skill = 60
	SkillSureHands          Skill = 61
	SkillThickSkull         Skill = 62
	SkillThrowTeamMate      Skill = 63
	SkillTitchy             Skill = 64
	SkillHypnoticGaze       Skill = 65
	SkillBombardier         Skill = 66
	SkillWildAnimal         Skill = 67
	SkillWrestle            Skill = 68
	SkillTentacles          Skill = 69
	SkillMultipleBlock      Skill = 70
	SkillKickOffReturn      Skill = 71
	SkillDecay              Skill = 72
	SkillNurglesRot         Skill = 73
	SkillBallAndChain       Skill = 74
	SkillAnimosity          Skill = 75
	SkillBloodLust          Skill = 76
	SkillFanFavourite       Skill = 77
	SkillMonstrousMouth     Skill = 78
	SkillBlizzardProof      Skill = 79
)

var skillNames = map[Skill]string{
	SkillStripBall: "Strip Ball", SkillIncreaseStrength: "+ST", SkillIncreaseAgility: "+AG",
	SkillIncreaseMovement: "+MA", SkillIncreaseArmour: "+AV", SkillCatch: "Catch",
	SkillDodge: "Dodge", SkillSprint: "Sprint", SkillPassBlock: "Pass Block",
	SkillFoulAppearance: "Foul Appearance", SkillLeap: "Leap", SkillExtraArms: "Extra Arms",
	SkillMightyBlow: "Mighty Blow", SkillLeader: "Leader", SkillHorns: "Horns",
	SkillTwoHeads: "Two Heads", SkillStandFirm: "Stand Firm", SkillAlwaysHungry: "Always Hungry",
	SkillRegeneration: "Regeneration", SkillTakeRoot: "Take Root", SkillAccurate: "Accurate",
	SkillBreakTackle: "Break Tackle", SkillSneakyGit: "Sneaky Git", SkillChainsaw: "Chainsaw",
	SkillDauntless: "Dauntless", SkillDirtyPlayer: "Dirty Player", SkillDivingCatch: "Diving Catch",
	SkillDumpOff: "Dump-Off", SkillBlock: "Block", SkillBoneHead: "Bone-head",
	SkillVeryLongLegs: "Very Long Legs", SkillDisturbingPresence: "Disturbing Presence",
	SkillDivingTackle: "Diving Tackle", SkillFend: "Fend", SkillFrenzy: "Frenzy", SkillGrab: "Grab",
	SkillGuard: "Guard", SkillHailMaryPass: "Hail Mary Pass", SkillJuggernaut: "Juggernaut",
	SkillJumpUp: "Jump Up", SkillKick: "Kick", SkillClaw: "Claw", SkillBigHand: "Big Hand",
	SkillStab: "Stab", SkillLoner: "Loner", SkillNervesOfSteel: "Nerves of Steel",
	SkillNoHands: "No Hands", SkillPass: "Pass", SkillPilingOn: "Piling On",
	SkillPrehensileTail: "Prehensile Tail", SkillPro: "Pro", SkillReallyStupid: "Really Stupid",
	SkillRightStuff: "Right Stuff", SkillSafeThrow: "Safe Throw", SkillSecretWeapon: "Secret Weapon",
	SkillShadowing: "Shadowing", SkillSideStep: "Side Step", SkillTackle: "Tackle",
	SkillStrongArm: "Strong Arm", SkillStunty: "Stunty", SkillSureFeet: "Sure Feet",
	SkillSureHands: "Sure Hands", SkillThickSkull: "Thick Skull", SkillThrowTeamMate: "Throw Team-Mate",
	SkillTitchy: "Titchy", SkillHypnoticGaze: "Hypnotic Gaze", SkillBombardier: "Bombardier",
	SkillWildAnimal: "Wild Animal", SkillWrestle: "Wrestle", SkillTentacles: "Tentacles",
	SkillMultipleBlock: "Multiple Block", SkillKickOffReturn: "Kick-Off Return", SkillDecay: "Decay",
	SkillNurglesRot: "Nurgle's Rot", SkillBallAndChain: "Ball & Chain", SkillAnimosity: "Animosity",
	SkillBloodLust: "Blood Lust", SkillFanFavourite: "Fan Favourite",
	SkillMonstrousMouth: "Monstrous Mouth", SkillBlizzardProof: "Blizzard Proof",
}

func (s Skill) String() string {
	if name, ok := skillNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Skill %d", int(s))
}
