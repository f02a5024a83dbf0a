package datastructure

// HierarchyLimits caps the expansion of one hierarchy level within one
// per-location search: a maximum number of settled/queued edges at the level
// and a maximum distance from the location beyond which the level is no
// longer expanded. A zero ExpansionWithinDist means unlimited distance.
type HierarchyLimits struct {
	MaxExpansions       uint32
	ExpansionWithinDist float64

	expansions uint32
}

func NewHierarchyLimits(maxExpansions uint32, expansionWithinDist float64) HierarchyLimits {
	return HierarchyLimits{
		MaxExpansions:       maxExpansions,
		ExpansionWithinDist: expansionWithinDist,
	}
}

// StopExpanding reports whether the level is exhausted for a frontier at the
// given distance (meter) from the location.
func (h *HierarchyLimits) StopExpanding(distFromOrigin float64) bool {
	if h.expansions >= h.MaxExpansions {
		return true
	}
	if h.ExpansionWithinDist > 0 && distFromOrigin > h.ExpansionWithinDist {
		return true
	}
	return false
}

func (h *HierarchyLimits) Increment() {
	h.expansions++
}

func (h *HierarchyLimits) Expansions() uint32 {
	return h.expansions
}
