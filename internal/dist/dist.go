// Package dist is a small algebra over discrete value distributions. Nodes
// are immutable; every operation returns a new node.
package dist

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Outcome is one entry of a fully expanded distribution.
type Outcome struct {
	Value  float64
	Weight float64
}

type Distribution interface {
	Name() string
	ExpectedValue() float64
	// Flat expands the distribution into ascending values whose weights
	// sum to 1.
	Flat() []Outcome
	Sample(r *rand.Rand) float64
	String() string
}

// SingleValue has no variance.
type SingleValue struct {
	name  string
	value float64
}

func Single(name string, value float64) *SingleValue {
	return &SingleValue{name: name, value: value}
}

func (s *SingleValue) Name() string              { return s.name }
func (s *SingleValue) Value() float64            { return s.value }
func (s *SingleValue) ExpectedValue() float64    { return s.value }
func (s *SingleValue) Flat() []Outcome           { return []Outcome{{Value: s.value, Weight: 1}} }
func (s *SingleValue) Sample(*rand.Rand) float64 { return s.value }

func (s *SingleValue) String() string {
	if s.name == "" {
		return formatValue(s.value)
	}
	return fmt.Sprintf("%s(%s)", s.name, formatValue(s.value))
}

// Weighted is a named outcome of a SimpleDistribution. Weights need not be
// normalized.
type Weighted struct {
	Name   string
	Weight float64
	Value  Distribution
}

type SimpleDistribution struct {
	name     string
	outcomes []Weighted
}

func Simple(name string, outcomes []Weighted) *SimpleDistribution {
	return &SimpleDistribution{name: name, outcomes: outcomes}
}

func (s *SimpleDistribution) Name() string { return s.name }

func (s *SimpleDistribution) Outcomes() []Weighted {
	out := make([]Weighted, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

func (s *SimpleDistribution) TotalWeight() float64 {
	total := 0.0
	for _, o := range s.outcomes {
		total += o.Weight
	}
	return total
}

func (s *SimpleDistribution) ExpectedValue() float64 {
	total := s.TotalWeight()
	if total == 0 {
		return 0
	}
	ev := 0.0
	for _, o := range s.outcomes {
		ev += o.Weight * o.Value.ExpectedValue()
	}
	return ev / total
}

func (s *SimpleDistribution) Flat() []Outcome {
	total := s.TotalWeight()
	if total == 0 {
		return nil
	}
	var out []Outcome
	for _, o := range s.outcomes {
		for _, f := range o.Value.Flat() {
			out = append(out, Outcome{Value: f.Value, Weight: f.Weight * o.Weight / total})
		}
	}
	return merge(out)
}

func (s *SimpleDistribution) Sample(r *rand.Rand) float64 {
	total := s.TotalWeight()
	if total == 0 {
		return 0
	}
	pick := r.Float64() * total
	for _, o := range s.outcomes {
		if pick < o.Weight {
			return o.Value.Sample(r)
		}
		pick -= o.Weight
	}
	return s.outcomes[len(s.outcomes)-1].Value.Sample(r)
}

func (s *SimpleDistribution) String() string {
	parts := make([]string, 0, len(s.outcomes))
	for _, o := range s.outcomes {
		parts = append(parts, fmt.Sprintf("%s:%s", o.Name, formatValue(o.Value.ExpectedValue())))
	}
	return fmt.Sprintf("%s{%s}", s.name, strings.Join(parts, ", "))
}

// Op combines the children of a Combination.
type Op int

const (
	OpSum Op = iota
	OpProduct
	OpQuotient
	OpMin
	OpMax
)

func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpProduct:
		return "product"
	case OpQuotient:
		return "quotient"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

func (o Op) apply(a, b float64) float64 {
	switch o {
	case OpSum:
		return a + b
	case OpProduct:
		return a * b
	case OpQuotient:
		if b == 0 {
			return 0
		}
		return a / b
	case OpMin:
		if b < a {
			return b
		}
		return a
	default:
		if b > a {
			return b
		}
		return a
	}
}

// Combination applies Op across independent children: SumDistribution,
// MinDistribution and friends.
type Combination struct {
	op       Op
	name     string
	children []Distribution
}

func (c *Combination) Name() string             { return c.name }
func (c *Combination) Op() Op                   { return c.op }
func (c *Combination) Children() []Distribution { return c.children }

func (c *Combination) ExpectedValue() float64 {
	switch c.op {
	case OpSum:
		ev := 0.0
		for _, child := range c.children {
			ev += child.ExpectedValue()
		}
		return ev
	case OpProduct:
		ev := 1.0
		for _, child := range c.children {
			ev *= child.ExpectedValue()
		}
		return ev
	}
	return expected(c.Flat())
}

func (c *Combination) Flat() []Outcome {
	switch c.op {
	case OpMin, OpMax:
		return extremal(c.op, c.children)
	}
	acc := c.children[0].Flat()
	for _, child := range c.children[1:] {
		next := child.Flat()
		combined := make([]Outcome, 0, len(acc)*len(next))
		for _, a := range acc {
			for _, b := range next {
				combined = append(combined, Outcome{Value: c.op.apply(a.Value, b.Value), Weight: a.Weight * b.Weight})
			}
		}
		acc = merge(combined)
	}
	return acc
}

func (c *Combination) Sample(r *rand.Rand) float64 {
	v := c.children[0].Sample(r)
	for _, child := range c.children[1:] {
		v = c.op.apply(v, child.Sample(r))
	}
	return v
}

func (c *Combination) String() string {
	parts := make([]string, 0, len(c.children))
	for _, child := range c.children {
		parts = append(parts, child.String())
	}
	var body string
	switch c.op {
	case OpSum:
		body = strings.Join(parts, " + ")
	case OpProduct:
		body = strings.Join(parts, " * ")
	case OpQuotient:
		body = strings.Join(parts, " / ")
	default:
		body = fmt.Sprintf("%s(%s)", c.op, strings.Join(parts, ", "))
	}
	if c.name != "" {
		return fmt.Sprintf("%s[%s]", c.name, body)
	}
	return body
}

type named struct {
	Distribution
	name string
}

func (n *named) Name() string { return n.name }

func (n *named) String() string {
	return fmt.Sprintf("%s(%s)", n.name, formatValue(n.ExpectedValue()))
}

// Named relabels d without changing its values.
func Named(name string, d Distribution) Distribution {
	if d == nil {
		return nil
	}
	switch v := d.(type) {
	case *SingleValue:
		return Single(name, v.value)
	case *SimpleDistribution:
		return Simple(name, v.outcomes)
	case *Combination:
		return &Combination{op: v.op, name: name, children: v.children}
	case *named:
		return &named{Distribution: v.Distribution, name: name}
	}
	return &named{Distribution: d, name: name}
}

// extremal computes the exact distribution of the min or max of independent
// children from the product of their cumulative distributions.
func extremal(op Op, children []Distribution) []Outcome {
	flats := make([][]Outcome, len(children))
	values := map[float64]struct{}{}
	for i, child := range children {
		flats[i] = child.Flat()
		for _, o := range flats[i] {
			values[o.Value] = struct{}{}
		}
	}
	sorted := make([]float64, 0, len(values))
	for v := range values {
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)

	cdf := func(flat []Outcome, v float64) float64 {
		p := 0.0
		for _, o := range flat {
			if o.Value <= v {
				p += o.Weight
			}
		}
		return p
	}

	out := make([]Outcome, 0, len(sorted))
	prev := 0.0
	if op == OpMin {
		prev = 1.0
	}
	for _, v := range sorted {
		g := 1.0
		for _, flat := range flats {
			if op == OpMax {
				g *= cdf(flat, v)
			} else {
				g *= 1 - cdf(flat, v)
			}
		}
		var mass float64
		if op == OpMax {
			mass = g - prev
		} else {
			mass = prev - g
		}
		prev = g
		if mass > 1e-12 {
			out = append(out, Outcome{Value: v, Weight: mass})
		}
	}
	return out
}

func merge(outcomes []Outcome) []Outcome {
	byValue := make(map[float64]float64, len(outcomes))
	for _, o := range outcomes {
		byValue[o.Value] += o.Weight
	}
	out := make([]Outcome, 0, len(byValue))
	for v, w := range byValue {
		out = append(out, Outcome{Value: v, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func expected(flat []Outcome) float64 {
	ev, total := 0.0, 0.0
	for _, o := range flat {
		ev += o.Value * o.Weight
		total += o.Weight
	}
	if total == 0 {
		return 0
	}
	return ev / total
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.3g", v)
}
