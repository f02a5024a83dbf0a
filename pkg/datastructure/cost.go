package datastructure

import "math"

// Cost is the pair of the optimization objective and elapsed travel time in
// seconds. Costs compose by addition.
type Cost struct {
	Cost float64
	Secs float64
}

func NewCost(cost, secs float64) Cost {
	return Cost{Cost: cost, Secs: secs}
}

func (c Cost) Add(o Cost) Cost {
	return Cost{Cost: c.Cost + o.Cost, Secs: c.Secs + o.Secs}
}

func (c Cost) Sub(o Cost) Cost {
	return Cost{Cost: c.Cost - o.Cost, Secs: c.Secs - o.Secs}
}

func (c Cost) Scale(f float64) Cost {
	return Cost{Cost: c.Cost * f, Secs: c.Secs * f}
}

// Valid reports whether the cost honors the costing contract: finite and
// nonnegative in both components.
func (c Cost) Valid() bool {
	if math.IsNaN(c.Cost) || math.IsNaN(c.Secs) {
		return false
	}
	if math.IsInf(c.Cost, 0) || math.IsInf(c.Secs, 0) {
		return false
	}
	return c.Cost >= 0 && c.Secs >= 0
}
