package models

// NoOption marks a unit that has not been assigned any option.
const NoOption = -1

// Action is one state transition for a unit: an initial assignment
// (From == NoOption) or an upgrade to a costlier, more valuable option.
type Action struct {
	Unit  int     `json:"unit"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Cost  float64 `json:"cost"`  // incremental cost
	Value float64 `json:"value"` // incremental ranking value
	Score float64 `json:"score"` // incremental evaluation score
	Ratio float64 `json:"ratio"`
}

// Step is an action applied on the path together with the cumulative
// totals right after it. The last step of an incomplete path may end past
// the maximum budget; it is only partially realized.
type Step struct {
	Action
	Spend float64 `json:"spend"`
	Gain  float64 `json:"gain"`
}

// Breakpoint is a point on the gain-vs-spend path where the marginal ratio
// changes. Step indexes the trace action that produced it, or -1 for the
// origin.
type Breakpoint struct {
	Spend float64 `json:"spend"`
	Gain  float64 `json:"gain"`
	Value float64 `json:"value"`
	Ratio float64 `json:"ratio"`
	Step  int     `json:"step"`
}

// Estimate is a point estimate with its bootstrap standard error.
// StdErr is NaN when no replicate information is available.
type Estimate struct {
	Value  float64 `json:"estimate"`
	StdErr float64 `json:"std_err"`
}
