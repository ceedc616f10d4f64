package models

import "time"

// Report is the analysis of one replay.
type Report struct {
	Location    string            `yaml:"location" json:"location"`
	AnalyzedAt  time.Time         `yaml:"analyzedAt" json:"analyzedAt"`
	Game        GameDetails       `yaml:"game" json:"game"`
	Actions     []ActionReport    `yaml:"actions" json:"actions"`
	Unknown     []UnknownCount    `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	Halt        *HaltReport       `yaml:"halt,omitempty" json:"halt,omitempty"`
	Luck        []TeamLuck        `yaml:"luck,omitempty" json:"luck,omitempty"`
	Activations []ActivationValue `yaml:"activations,omitempty" json:"activations,omitempty"`
}

type GameDetails struct {
	Stadium string     `yaml:"stadium" json:"stadium"`
	League  string     `yaml:"league,omitempty" json:"league,omitempty"`
	Date    time.Time  `yaml:"date,omitempty" json:"date,omitempty"`
	Weather string     `yaml:"weather,omitempty" json:"weather,omitempty"`
	Home    TeamResult `yaml:"home" json:"home"`
	Away    TeamResult `yaml:"away" json:"away"`
}

type TeamResult struct {
	Coach string `yaml:"coach" json:"coach"`
	Team  string `yaml:"team" json:"team"`
	Race  int    `yaml:"race" json:"race"`
	Score int    `yaml:"score" json:"score"`
}

// ActionReport is one primary action with its dependents folded in. Values
// are from the point of view of the team taking its turn.
type ActionReport struct {
	RollIndex        int       `yaml:"rollIndex" json:"rollIndex"`
	StartIndex       int       `yaml:"startIndex" json:"startIndex"`
	EndIndex         int       `yaml:"endIndex" json:"endIndex"`
	Turn             int       `yaml:"turn" json:"turn"`
	Kind             string    `yaml:"kind" json:"kind"`
	Team             string    `yaml:"team" json:"team"`
	Player           string    `yaml:"player,omitempty" json:"player,omitempty"`
	Skills           []string  `yaml:"skills,omitempty" json:"skills,omitempty"`
	Description      string    `yaml:"description" json:"description"`
	ShortDescription string    `yaml:"shortDescription" json:"shortDescription"`
	Dice             []int     `yaml:"dice,flow" json:"dice"`
	Value            float64   `yaml:"value" json:"value"`
	Expected         float64   `yaml:"expected" json:"expected"`
	Delta            float64   `yaml:"delta" json:"delta"`
	Improbability    float64   `yaml:"improbability" json:"improbability"`
	ValueDescription string    `yaml:"valueDescription,omitempty" json:"valueDescription,omitempty"`
	Outcomes         []Outcome `yaml:"outcomes" json:"outcomes"`
	Unhandled        []string  `yaml:"unhandledSkills,omitempty" json:"unhandledSkills,omitempty"`
}

type Outcome struct {
	Name   string  `yaml:"name" json:"name"`
	Value  float64 `yaml:"value" json:"value"`
	Weight float64 `yaml:"weight" json:"weight"`
}

type UnknownCount struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

type HaltReport struct {
	Reason         string `yaml:"reason" json:"reason"`
	Step           int    `yaml:"step" json:"step"`
	RemainingSteps int    `yaml:"remainingSteps" json:"remainingSteps"`
}

// TeamLuck compares a team's realized total against simulated totals.
type TeamLuck struct {
	Team       string  `yaml:"team" json:"team"`
	Actual     float64 `yaml:"actual" json:"actual"`
	Expected   float64 `yaml:"expected" json:"expected"`
	P33        float64 `yaml:"p33" json:"p33"`
	P50        float64 `yaml:"p50" json:"p50"`
	P67        float64 `yaml:"p67" json:"p67"`
	Percentile float64 `yaml:"percentile" json:"percentile"`
}

type ActivationValue struct {
	Key      string  `yaml:"key" json:"key"`
	Turn     int     `yaml:"turn" json:"turn"`
	Player   string  `yaml:"player" json:"player"`
	Actual   float64 `yaml:"actual" json:"actual"`
	Expected float64 `yaml:"expected" json:"expected"`
}
