package rolls

import (
	"math"

	"github.com/cpennington/dicedornot/internal/dist"
)

type Config struct {
	// Decay discounts each later half turn. 1 weighs every remaining half
	// turn equally.
	Decay float64
}

type memoKey struct {
	id     int
	kind   string
	player int
	flag   bool
}

// Context owns the actions of one replay and the memo tables their values
// are cached in. Every memo entry is keyed by the id of the action that
// computed it. Link clears all of them, since linking changes the
// dependents and the later actions a value may refer to.
type Context struct {
	cfg       Config
	nextID    int
	primaries []Action
	memo      map[memoKey]dist.Distribution
	future    map[memoKey]float64
}

func NewContext(cfg Config) *Context {
	if cfg.Decay <= 0 {
		cfg.Decay = 1
	}
	return &Context{
		cfg:    cfg,
		memo:   map[memoKey]dist.Distribution{},
		future: map[memoKey]float64{},
	}
}

func (c *Context) register(b *Base) {
	c.nextID++
	b.id = c.nextID
	b.ctx = c
}

func (c *Context) cached(k memoKey, compute func() dist.Distribution) dist.Distribution {
	if v, ok := c.memo[k]; ok {
		return v
	}
	v := compute()
	c.memo[k] = v
	return v
}

// Reset drops every memoized value.
func (c *Context) Reset() {
	clear(c.memo)
	clear(c.future)
}

// Memoized reports how many values are currently cached.
func (c *Context) Memoized() int {
	return len(c.memo) + len(c.future)
}

// decayed converts a count of half turns into its discounted weight.
func (c *Context) decayed(turns float64) float64 {
	d := c.cfg.Decay
	if d == 1 || turns <= 0 {
		return turns
	}
	return (1 - math.Pow(d, turns)) / (1 - d)
}
