package rolls

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cpennington/dicedornot/internal/bb2"
	"github.com/cpennington/dicedornot/internal/dist"
	"github.com/cpennington/dicedornot/internal/game"
)

const pushFactor = 0.33

// Block is a block roll. Dice holds the faces the coach chose from; the
// raw result lists every face twice.
type Block struct {
	Base
	RedDice  bool
	Attacker *game.Player
	Defender *game.Player
	Blitz    bool
}

func (b *Block) Name() string { return "Block" }

func (b *Block) faces() string {
	return joinFaces(b.Dice)
}

func (b *Block) Description() string {
	if b.Attacker == nil || b.Defender == nil {
		return "Block Roll missing attacker or defender"
	}
	uphill := ""
	if b.RedDice {
		uphill = " uphill"
	}
	defender := b.Defender.Name
	if len(b.Defender.Skills) > 0 {
		defender += " (" + strings.Join(b.Defender.SkillNames(), ", ") + ")"
	}
	return fmt.Sprintf("Block: %s against %s - %s%s", b.playerLabel(), defender, b.faces(), uphill)
}

func (b *Block) ShortDescription() string {
	return b.describeShort("Block", b.faces())
}

func (b *Block) Ignore() bool {
	if !b.HasResult || b.ResultType != bb2.ResultFailTeamRR {
		return true
	}
	if b.SubResult == bb2.SubResultFend || b.SubResult == bb2.SubResultChoiceUseDodgeTackle {
		return true
	}
	return b.ignoreRoll()
}

func (b *Block) handledSkills() []bb2.Skill {
	return []bb2.Skill{
		bb2.SkillTackle, bb2.SkillDodge, bb2.SkillBlock, bb2.SkillGuard,
		bb2.SkillHorns, bb2.SkillStandFirm, bb2.SkillWrestle, bb2.SkillTakeRoot,
	}
}

func (b *Block) conditions() []condition {
	return []condition{pushOrFollow, nonFoulDamage, reroll, samePlayerMove}
}

func (b *Block) push(expected bool) dist.Distribution {
	var v dist.Distribution
	if b.Defender.HasSkill(bb2.SkillStandFirm) {
		v = dist.Single("Stand Firm", 0)
	} else {
		v = dist.Named(fmt.Sprintf("Push(%s)", b.Defender.Name),
			dist.Product(knockdownValue(&b.Base, b.Defender, false, false), dist.Single("Push", pushFactor)))
	}
	if expected {
		v = dist.Add(v, dependentMoveValues(&b.Base))
	}
	return v
}

func (b *Block) defenderDown(expected bool) dist.Distribution {
	v := knockdownValue(&b.Base, b.Defender, expected, b.Attacker.HasSkill(bb2.SkillMightyBlow))
	if expected {
		v = dist.Add(v, dependentMoveValues(&b.Base))
	}
	return v
}

func (b *Block) dieValue(face bb2.BlockDie, expected bool) dist.Distribution {
	att, def := b.Attacker, b.Defender
	if att == nil || def == nil {
		return dist.Single("Block Roll missing attacker or defender", 0)
	}
	switch face {
	case bb2.AttackerDown:
		return dist.Add(knockdownValue(&b.Base, att, expected, def.HasSkill(bb2.SkillMightyBlow)), turnoverValue(&b.Base))
	case bb2.BothDown:
		return b.bothDown(expected)
	case bb2.Push:
		return b.push(expected)
	case bb2.DefenderStumbles:
		if def.HasSkill(bb2.SkillDodge) && !att.HasSkill(bb2.SkillTackle) {
			return b.push(expected)
		}
		return b.defenderDown(expected)
	case bb2.DefenderDown:
		return b.defenderDown(expected)
	}
	return dist.Single(face.String(), 0)
}

func (b *Block) bothDown(expected bool) dist.Distribution {
	att, def := b.Attacker, b.Defender
	wrestle := func() dist.Distribution {
		return dist.Add(knockdownValue(&b.Base, def, false, false), knockdownValue(&b.Base, att, false, false))
	}
	var moves dist.Distribution
	if expected {
		moves = dependentMoveValues(&b.Base)
	}

	var base dist.Distribution
	aBlock, dBlock := att.HasSkill(bb2.SkillBlock), def.HasSkill(bb2.SkillBlock)
	switch {
	case aBlock && dBlock:
		base = dist.Add(dist.Single("Block/Block", 0), moves)
	case aBlock:
		base = dist.Add(knockdownValue(&b.Base, def, expected, att.HasSkill(bb2.SkillMightyBlow)), moves)
	case dBlock:
		base = knockdownValue(&b.Base, att, expected, def.HasSkill(bb2.SkillMightyBlow))
	default:
		base = dist.Add(
			knockdownValue(&b.Base, def, expected, att.HasSkill(bb2.SkillMightyBlow)),
			knockdownValue(&b.Base, att, expected, def.HasSkill(bb2.SkillMightyBlow)),
			turnoverValue(&b.Base),
		)
	}

	if def.HasSkill(bb2.SkillWrestle) {
		base = dist.Min(base, wrestle())
	}
	options := []dist.Distribution{base}
	if att.HasSkill(bb2.SkillWrestle) {
		options = append(options, wrestle())
	}
	if att.HasSkill(bb2.SkillJuggernaut) && b.Blitz {
		juggernaut := dist.Named(fmt.Sprintf("Push(%s)", def.Name),
			dist.Product(knockdownValue(&b.Base, def, false, false), dist.Single("Push", pushFactor)))
		options = append(options, dist.Add(juggernaut, moves))
	}
	return dist.Max(options...)
}

func (b *Block) Value(dice []int, expected bool) dist.Distribution {
	if len(b.Dependents) > 0 {
		next := b.Dependents[0].Common()
		if next.RollType == b.RollType && next.RollStatus == bb2.RerollTaken {
			return dist.Single("Reroll", 0)
		}
	}
	return b.faceValue(distinctFaces(dice), expected)
}

// distinctFaces drops repeated faces, keeping first-seen order.
func distinctFaces(dice []int) []int {
	var faces []int
	for _, d := range dice {
		if !slices.Contains(faces, d) {
			faces = append(faces, d)
		}
	}
	return faces
}

// faceValue combines the values of distinct faces: the coach picks the best
// one, or the defender picks the worst when the dice are red.
func (b *Block) faceValue(faces []int, expected bool) dist.Distribution {
	values := make([]dist.Distribution, 0, len(faces))
	for _, f := range faces {
		values = append(values, b.dieValue(bb2.BlockDie(f), expected))
	}
	switch {
	case len(values) == 0:
		return dist.Single("Block", 0)
	case len(values) == 1:
		return values[0]
	case b.RedDice:
		return dist.Min(values...)
	}
	return dist.Max(values...)
}

func (b *Block) Improbability() float64 {
	if b.Attacker == nil || b.Defender == nil || len(b.Dice) == 0 {
		return 0
	}
	unsafe := []bb2.BlockDie{bb2.AttackerDown, bb2.BothDown}
	if b.Attacker.HasSkill(bb2.SkillBlock) || b.Attacker.HasSkill(bb2.SkillWrestle) {
		unsafe = unsafe[:1]
	}
	isUnsafe := func(d int) bool { return slices.Contains(unsafe, bb2.BlockDie(d)) }
	safeChance := float64(6-len(unsafe)) / 6
	n := float64(len(b.Dice))

	var pass bool
	var passChance float64
	if b.RedDice {
		pass = !slices.ContainsFunc(b.Dice, isUnsafe)
		passChance = 1 - math.Pow(1-safeChance, n)
	} else {
		pass = slices.ContainsFunc(b.Dice, func(d int) bool { return !isUnsafe(d) })
		passChance = math.Pow(safeChance, n)
	}
	if pass {
		return 1 - passChance
	}
	return -passChance
}

// blockFaces are the six sides of a block die. Push covers two of them.
var blockFaces = []bb2.BlockDie{bb2.Push, bb2.Push, bb2.AttackerDown, bb2.DefenderDown, bb2.DefenderStumbles, bb2.BothDown}

// outcomes enumerates all 6^n face combinations of the rolled dice and
// values each one the way Value does. Combinations with the same distinct
// faces are grouped, so the weights total 6^n.
func (b *Block) outcomes() dist.Distribution {
	n := max(len(b.Dice), 1)
	type group struct {
		faces  []int
		weight float64
	}
	var groups []*group
	byKey := map[string]*group{}

	combo := make([]int, n)
	var walk func(i int)
	walk = func(i int) {
		if i == n {
			faces := distinctFaces(combo)
			slices.Sort(faces)
			key := joinFaces(faces)
			g, ok := byKey[key]
			if !ok {
				g = &group{faces: faces}
				byKey[key] = g
				groups = append(groups, g)
			}
			g.weight++
			return
		}
		for _, f := range blockFaces {
			combo[i] = int(f)
			walk(i + 1)
		}
	}
	walk(0)

	outcomes := make([]dist.Weighted, 0, len(groups))
	for _, g := range groups {
		outcomes = append(outcomes, dist.Weighted{
			Name:   joinFaces(g.faces),
			Weight: g.weight,
			Value:  b.faceValue(g.faces, true),
		})
	}
	return dist.Simple("Block", outcomes)
}

func joinFaces(faces []int) string {
	names := make([]string, len(faces))
	for i, f := range faces {
		names[i] = bb2.BlockDie(f).Short()
	}
	return strings.Join(names, "/")
}
