package costing

import (
	"fmt"

	"github.com/lintang-b-s/tilematrix/pkg"
)

type Option func(*baseCost)

// WithSpeedFunc install a time-of-day speed function, consulted whenever a
// query carries time.
func WithSpeedFunc(fn SpeedFunc) Option {
	return func(b *baseCost) {
		b.speedFunc = fn
	}
}

// NewCosting build the costing of a travel mode.
func NewCosting(mode pkg.TravelMode, opts ...Option) (DynamicCost, error) {
	switch mode {
	case pkg.TRAVEL_MODE_AUTO:
		return NewAutoCost(opts...), nil
	case pkg.TRAVEL_MODE_BICYCLE:
		return NewBicycleCost(opts...), nil
	case pkg.TRAVEL_MODE_PEDESTRIAN:
		return NewPedestrianCost(opts...), nil
	default:
		return nil, fmt.Errorf("unknown travel mode %d", mode)
	}
}

// ModeFromName parse a costing name from a request.
func ModeFromName(name string) (pkg.TravelMode, error) {
	switch name {
	case "auto", "":
		return pkg.TRAVEL_MODE_AUTO, nil
	case "bicycle":
		return pkg.TRAVEL_MODE_BICYCLE, nil
	case "pedestrian":
		return pkg.TRAVEL_MODE_PEDESTRIAN, nil
	default:
		return 0, fmt.Errorf("unknown costing %q", name)
	}
}
