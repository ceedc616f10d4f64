package dist

import (
	"fmt"
	"sort"
)

// Add sums the distributions. Nil arguments are skipped; Add returns nil
// when nothing is left.
func Add(ds ...Distribution) Distribution {
	return combine(OpSum, ds)
}

// Subtract returns a - b.
func Subtract(a, b Distribution) Distribution {
	if b == nil {
		return a
	}
	return Add(a, Negate(b))
}

// Negate flips the sign of d, keeping its name.
func Negate(d Distribution) Distribution {
	if d == nil {
		return nil
	}
	if s, ok := d.(*SingleValue); ok {
		return Single(s.name, -s.value)
	}
	return Named(d.Name(), Product(d, Single("", -1)))
}

// Scale multiplies d by a constant.
func Scale(d Distribution, k float64) Distribution {
	return Product(d, Single("", k))
}

func Product(ds ...Distribution) Distribution {
	return combine(OpProduct, ds)
}

// Divide returns a / b. Division by a zero outcome yields 0.
func Divide(a, b Distribution) Distribution {
	if a == nil || b == nil {
		return a
	}
	return &Combination{op: OpQuotient, children: []Distribution{a, b}}
}

func Min(ds ...Distribution) Distribution {
	return combine(OpMin, ds)
}

func Max(ds ...Distribution) Distribution {
	return combine(OpMax, ds)
}

// Sum builds a named sum.
func Sum(name string, ds ...Distribution) Distribution {
	return Named(name, Add(ds...))
}

func combine(op Op, ds []Distribution) Distribution {
	children := make([]Distribution, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		// Unnamed nodes of the same associative op are spliced in so that
		// grouping does not change the tree.
		if c, ok := d.(*Combination); ok && c.op == op && c.name == "" {
			children = append(children, c.children...)
			continue
		}
		children = append(children, d)
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &Combination{op: op, children: children}
}

// Quantile returns the weighted q-quantile of d's values.
func Quantile(d Distribution, q float64) float64 {
	return WeightedQuantile(d.Flat(), q)
}

// WeightedQuantile returns the smallest value whose cumulative weight
// reaches q of the total. Outcomes need not be sorted.
func WeightedQuantile(outcomes []Outcome, q float64) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	sorted := make([]Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	total := 0.0
	for _, o := range sorted {
		total += o.Weight
	}
	target := q * total
	acc := 0.0
	for _, o := range sorted {
		acc += o.Weight
		if acc >= target-1e-12 {
			return o.Value
		}
	}
	return sorted[len(sorted)-1].Value
}

// Rank returns the fraction of weight strictly below v plus half the weight
// equal to it.
func Rank(outcomes []Outcome, v float64) float64 {
	below, equal, total := 0.0, 0.0, 0.0
	for _, o := range outcomes {
		total += o.Weight
		switch {
		case o.Value < v:
			below += o.Weight
		case o.Value == v:
			equal += o.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return (below + equal/2) / total
}

// Entry is a named outcome ready for display.
type Entry struct {
	Name   string
	Value  float64
	Weight float64
}

// Breakdown lists the top level outcomes of d. Simple distributions keep
// their outcome names; anything else is expanded to its flat values.
func Breakdown(d Distribution) []Entry {
	if d == nil {
		return nil
	}
	switch v := d.(type) {
	case *SimpleDistribution:
		out := make([]Entry, 0, len(v.outcomes))
		for _, o := range v.outcomes {
			out = append(out, Entry{Name: o.Name, Value: o.Value.ExpectedValue(), Weight: o.Weight})
		}
		return out
	case *SingleValue:
		return []Entry{{Name: v.name, Value: v.value, Weight: 1}}
	}
	flat := d.Flat()
	out := make([]Entry, 0, len(flat))
	for _, o := range flat {
		out = append(out, Entry{Name: formatValue(o.Value), Value: o.Value, Weight: o.Weight})
	}
	return out
}

// Describe renders name and expected value.
func Describe(d Distribution) string {
	if d == nil {
		return "-"
	}
	if d.Name() == "" {
		return formatValue(d.ExpectedValue())
	}
	return fmt.Sprintf("%s: %s", d.Name(), formatValue(d.ExpectedValue()))
}
