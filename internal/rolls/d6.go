package rolls

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
)

// D6 is a roll that passes when the sum of its dice reaches a target. The
// Kind decides what passing and failing are worth.
type D6 struct {
	Base
	Target   int
	Modifier int
	From     bb2.Cell
	To       bb2.Cell

	// Armor only.
	Foul        bool
	Fouler      *game.Player
	CanPileOn   bool
	PileOn      bool
	PilingOn    *game.Player
	DamageBonus bool

	// Pitch invasion only.
	Stunned bool
}

func (d *D6) Name() string {
	switch d.Kind {
	case KindArmor:
		switch {
		case d.Foul:
			return "Foul (Armor)"
		case d.PileOn:
			return "Pile On (Armor)"
		}
		return "Armor"
	case KindInterception:
		return "Intercept"
	}
	return d.Kind.String()
}

func (d *D6) numDice() int {
	if d.Kind == KindArmor {
		return 2
	}
	return 1
}

func (d *D6) computedTarget() int {
	if d.Kind == KindArmor && d.Player != nil {
		return d.Player.Stats.AV + 1
	}
	return 0
}

func (d *D6) computedModifier() int {
	if d.Kind == KindArmor && d.DamageBonus {
		return 1
	}
	return 0
}

// ModifiedTarget is the total the dice must reach. Single die rolls always
// pass on a 6 and fail on a 1.
func (d *D6) ModifiedTarget() int {
	target := d.Target
	if target == 0 {
		target = d.computedTarget()
	}
	modifier := d.Modifier
	if modifier == 0 {
		modifier = d.computedModifier()
	}
	t := target - modifier
	if d.numDice() == 1 {
		t = min(6, max(2, t))
	}
	return t
}

func (d *D6) rerollSkill() (bb2.Skill, bool) {
	switch d.Kind {
	case KindPickup:
		return bb2.SkillSureHands, true
	case KindDodge:
		return bb2.SkillDodge, true
	case KindPass:
		return bb2.SkillPass, true
	case KindGFI:
		return bb2.SkillSureFeet, true
	case KindCatch:
		return bb2.SkillCatch, true
	}
	return 0, false
}

func (d *D6) cancelSkill() (bb2.Skill, bool) {
	if d.Kind == KindDodge {
		return bb2.SkillTackle, true
	}
	return 0, false
}

// hasSkillReroll reports whether a failure would be rerolled for free by
// one of the player's skills.
func (d *D6) hasSkillReroll() bool {
	skill, ok := d.rerollSkill()
	if !ok || d.Player == nil || !d.Player.HasSkill(skill) {
		return false
	}
	if cancel, ok := d.cancelSkill(); ok {
		if slices.ContainsFunc(d.SkillsInEffect, func(s bb2.SkillInfo) bool { return s.SkillID == cancel }) {
			return false
		}
	}
	return d.RollStatus != bb2.RerollWithSkill && d.RollStatus != bb2.RerollTaken
}

func (d *D6) handledSkills() []bb2.Skill {
	switch d.Kind {
	case KindPickup:
		return []bb2.Skill{bb2.SkillSureHands, bb2.SkillBigHand, bb2.SkillExtraArms}
	case KindBoneHead:
		return []bb2.Skill{bb2.SkillBoneHead}
	case KindReallyStupid:
		return []bb2.Skill{bb2.SkillReallyStupid}
	case KindFoulAppearance:
		return []bb2.Skill{bb2.SkillFoulAppearance}
	case KindWildAnimal:
		return []bb2.Skill{bb2.SkillWildAnimal}
	case KindDauntless:
		return []bb2.Skill{bb2.SkillDauntless}
	case KindArmor:
		return []bb2.Skill{bb2.SkillClaw, bb2.SkillMightyBlow, bb2.SkillDirtyPlayer, bb2.SkillPilingOn}
	case KindDodge:
		return []bb2.Skill{
			bb2.SkillBreakTackle, bb2.SkillStunty, bb2.SkillTwoHeads, bb2.SkillDodge,
			bb2.SkillTackle, bb2.SkillPrehensileTail, bb2.SkillDivingTackle,
		}
	case KindJumpUp:
		return []bb2.Skill{bb2.SkillJumpUp}
	case KindPass:
		return []bb2.Skill{bb2.SkillPass, bb2.SkillStrongArm, bb2.SkillAccurate}
	case KindThrowTeammate:
		return []bb2.Skill{bb2.SkillThrowTeamMate}
	case KindInterception:
		return []bb2.Skill{bb2.SkillExtraArms}
	case KindGFI:
		return []bb2.Skill{bb2.SkillSureFeet}
	case KindCatch:
		return []bb2.Skill{bb2.SkillDisturbingPresence, bb2.SkillCatch, bb2.SkillExtraArms}
	case KindTakeRoot:
		return []bb2.Skill{bb2.SkillTakeRoot}
	case KindRegeneration:
		return []bb2.Skill{bb2.SkillRegeneration}
	}
	return nil
}

func (d *D6) conditions() []condition {
	switch d.Kind {
	case KindArmor:
		return []condition{foulDamage}
	case KindDodge, KindLeap, KindLanding, KindLightningBolt:
		return []condition{reroll, samePlayerMove, nonFoulDamage}
	case KindGFI:
		return []condition{nonFoulDamage, reroll, samePlayerMove}
	case KindPass:
		return []condition{catchOrInterception, samePlayerMove, reroll}
	case KindThrowTeammate:
		return []condition{samePlayerMove, reroll}
	case KindFireball:
		return []condition{nonFoulDamage}
	}
	return []condition{reroll, samePlayerMove}
}

func (d *D6) Ignore() bool { return d.ignoreRoll() }

func (d *D6) Description() string {
	dice := fmt.Sprintf("%s (%d)", joinDice(d.Dice, ","), d.ModifiedTarget())
	switch {
	case d.Kind == KindPitchInvasion && d.Player != nil:
		outcome := "safe"
		if d.Stunned {
			outcome = "stunned!"
		}
		return fmt.Sprintf("Pitch Invasion: %s %s - %s (%d)", d.Player.Name, outcome, joinDice(d.Dice, ","), d.Target)
	case d.Kind == KindArmor && d.Foul && d.Fouler != nil && d.Player != nil:
		fouler := (&Base{Player: d.Fouler}).playerLabel()
		victim := d.Player.Name
		if len(d.Player.Skills) > 0 {
			victim += " (" + strings.Join(d.Player.SkillNames(), ", ") + ")"
		}
		return fmt.Sprintf("%s: %s against %s - %s", d.Name(), fouler, victim, joinDice(d.Dice, "+"))
	}
	return d.describe(d.Name(), dice)
}

func (d *D6) ShortDescription() string {
	if d.Kind == KindPitchInvasion {
		return d.Description()
	}
	return d.describeShort(d.Name(), fmt.Sprintf("%d (%d)", sum(d.Dice), d.ModifiedTarget()))
}

// diceSums lists the total of every combination of the roll's dice,
// ascending.
func (d *D6) diceSums() []int {
	sums := []int{0}
	for range d.numDice() {
		next := make([]int, 0, len(sums)*6)
		for face := 1; face <= 6; face++ {
			for _, s := range sums {
				next = append(next, s+face)
			}
		}
		sums = next
	}
	slices.Sort(sums)
	return sums
}

func (d *D6) Value(dice []int, expected bool) dist.Distribution {
	total, target := sum(dice), d.ModifiedTarget()
	var v dist.Distribution
	switch {
	case total >= target:
		v = d.passValue(expected, total, target)
		if expected {
			v = dist.Add(v, dependentMoveValues(&d.Base))
		}
	case d.rerolledNext():
		return rerollValue(d.Name())
	default:
		v = d.failValue(expected, total, target)
	}
	if d.Kind == KindArmor && d.Foul && len(dice) >= 2 && dice[0] == dice[1] && d.Fouler != nil {
		v = dist.Add(v, dist.Named("Sent Off", casValue(&d.Base, d.Fouler)), turnoverValue(&d.Base))
	}
	return v
}

// rerolledNext reports whether the following action rerolls this one.
func (d *D6) rerolledNext() bool {
	next, ok := nextAction(&d.Base).(*D6)
	return ok && next.Kind == d.Kind && next.IsReroll
}

func (d *D6) outcomes() dist.Distribution {
	type run struct {
		lo, hi, count int
		value         dist.Distribution
	}
	target := d.ModifiedTarget()
	var failed dist.Distribution
	if d.hasSkillReroll() {
		failed = Outcomes(d.skillReroll())
	}

	var runs []run
	for _, s := range d.diceSums() {
		var v dist.Distribution
		switch {
		case s >= target:
			v = dist.Add(d.passValue(true, s, target), dependentMoveValues(&d.Base))
		case failed != nil:
			v = failed
		default:
			v = d.failValue(true, s, target)
		}
		if n := len(runs); n > 0 && runs[n-1].value.ExpectedValue() == v.ExpectedValue() {
			last := &runs[n-1]
			last.hi = max(last.hi, s)
			last.count++
			continue
		}
		runs = append(runs, run{lo: s, hi: s, count: 1, value: v})
	}

	outcomes := make([]dist.Weighted, 0, len(runs))
	for _, r := range runs {
		name := fmt.Sprint(r.lo)
		if r.lo != r.hi {
			name = fmt.Sprintf("%d-%d", r.lo, r.hi)
		}
		outcomes = append(outcomes, dist.Weighted{Name: name, Weight: float64(r.count), Value: r.value})
	}
	return dist.Simple(d.Name(), outcomes)
}

// skillReroll is the same roll taken again with the player's skill.
func (d *D6) skillReroll() *D6 {
	c := *d
	c.RollStatus = bb2.RerollWithSkill
	c.IsReroll = true
	d.ctx.register(&c.Base)
	return &c
}

func (d *D6) passChance() float64 {
	sums := d.diceSums()
	target := d.ModifiedTarget()
	pass := 0
	for _, s := range sums {
		if s >= target {
			pass++
		}
	}
	return float64(pass) / float64(len(sums))
}

func (d *D6) Improbability() float64 {
	if len(d.Dice) == 0 {
		return 0
	}
	passed := sum(d.Dice) >= d.ModifiedTarget()
	switch {
	case d.Kind == KindPitchInvasion && d.Player != nil:
		if onActiveTeam(d.State, d.Player) {
			return boolFloat(!d.Stunned) - float64(5-d.Modifier)/6
		}
		return boolFloat(d.Stunned) - float64(1+d.Modifier)/6
	case d.Kind == KindArmor && d.Player != nil && onActiveTeam(d.State, d.Player):
		return boolFloat(!passed) - (1 - d.passChance())
	}
	return boolFloat(passed) - d.passChance()
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (d *D6) passValue(expected bool, total, target int) dist.Distribution {
	b := &d.Base
	switch d.Kind {
	case KindArmor:
		return d.armorPass(expected, total, target)
	case KindDodge, KindLeap, KindGFI:
		return ballDelta(d.Player, d.From, d.To, d.Kind.String())
	case KindInterception:
		return turnoverValue(b)
	case KindWakeUp:
		inGame := halfTurnsInGame(d.State)
		return dist.Named(fmt.Sprintf("WakeUp(%s)", d.Player.Name),
			dist.Product(onTeamValue(b, d.Player), dist.Single(fmt.Sprintf("TDT(%g)", inGame), d.ctx.decayed(inGame))))
	case KindFireball, KindLightningBolt:
		return knockdownValue(b, d.Player, expected, false)
	case KindRegeneration:
		return dist.Named("Regeneration", dist.Scale(koValue(b, d.Player), -0.5))
	case KindPitchInvasion:
		return stunValue(b, d.Player)
	}
	return dist.Single("Pass", 0)
}

func (d *D6) failValue(expected bool, total, target int) dist.Distribution {
	b := &d.Base
	switch d.Kind {
	case KindArmor:
		v := dist.Distribution(dist.Single("No Break", 0))
		if d.PileOn {
			v = dist.Add(v, knockdownValue(b, d.PilingOn, false, false))
		}
		return v
	case KindPickup, KindPass, KindCatch:
		return turnoverValue(b)
	case KindBoneHead, KindReallyStupid, KindStandUp, KindTakeRoot:
		return knockdownValue(b, d.Player, false, false)
	case KindFoulAppearance, KindWildAnimal, KindJumpUp:
		return dist.Scale(onTeamValue(b, d.Player), -1)
	case KindDodge, KindGFI:
		return dist.Add(knockdownValue(b, d.Player, expected, false), turnoverValue(b))
	case KindLeap:
		return dist.Add(knockdownValue(b, d.Player, false, false), turnoverValue(b))
	case KindLanding:
		return knockdownValue(b, d.Player, expected, false)
	}
	return dist.Single("Fail", 0)
}

func (d *D6) armorPass(expected bool, total, target int) dist.Distribution {
	b := &d.Base
	bonus := d.DamageBonus && total != target
	injured := dist.Subtract(stunValue(b, d.Player), knockdownValue(b, d.Player, false, false))
	if expected {
		injured = dist.Add(injured, dist.Named("Injury Roll", d.injuryOutcomes(bonus, d.CanPileOn && !d.PileOn)))
	}
	if d.PileOn {
		injured = dist.Add(injured, knockdownValue(b, d.PilingOn, false, false))
	}
	return injured
}

// injuryOutcomes values the injury roll that follows a broken armor roll.
func (d *D6) injuryOutcomes(bonus, canPileOn bool) dist.Distribution {
	k := memoKey{id: d.id, kind: "injury", flag: bonus}
	if canPileOn {
		k.player = 1
	}
	return d.ctx.cached(k, func() dist.Distribution {
		inj := &Injury{
			Base: Base{
				Kind:       KindInjury,
				State:      d.State,
				Player:     d.Player,
				ActionType: d.ActionType,
				HasResult:  true,
				SubResult:  bb2.SubResultCasualty,
				StartIndex: d.StartIndex,
				RollType:   bb2.RollInjury,
			},
			CanPileOn: canPileOn,
			Foul:      d.Foul,
			Fouler:    d.Fouler,
		}
		if bonus {
			inj.Modifier = 1
		}
		d.ctx.register(&inj.Base)
		return Outcomes(inj)
	})
}

// syntheticArmor is the armor roll a player knocked down by parent faces.
func syntheticArmor(parent *Base, p *game.Player, bonus bool) *D6 {
	a := &D6{
		Base: Base{
			Kind:       KindArmor,
			State:      parent.State,
			Player:     p,
			ActionType: bb2.ActionTakeDamage,
			HasResult:  true,
			SubResult:  bb2.SubResultArmorNoBreak,
			StartIndex: parent.StartIndex,
			RollType:   bb2.RollArmor,
			Dice:       []int{1, 1},
		},
		DamageBonus: bonus,
	}
	if bonus {
		a.Modifier = 1
	}
	parent.ctx.register(&a.Base)
	return a
}
