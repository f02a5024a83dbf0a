package matrix

import (
	"github.com/spf13/viper"
)

// Cost ceilings are derived from max_matrix_distance through a mode-specific
// divisor, yielding a ceiling roughly proportional to travel time at modal
// speed. A 400 km distance threshold gives an auto cost ceiling of ~7143
// (just under two hours).
const (
	COST_THRESHOLD_AUTO_DIVISOR       = 56.0
	COST_THRESHOLD_BICYCLE_DIVISOR    = 56.0
	COST_THRESHOLD_PEDESTRIAN_DIVISOR = 28.0

	DEFAULT_PAIR_MEETING_THRESHOLD    = 16
	DEFAULT_MAX_RESERVED_LABELS_COUNT = 4096
	DEFAULT_MAX_LABELS_HARD_CAP       = 8000000

	// iteration budget of a location before any of its pairs has met. the
	// effective bound is the cost ceiling; this only backstops it.
	UNBOUNDED_THRESHOLD = 1 << 30

	BUCKET_COUNT = 20000
)

// Config per-query tunables of the engine.
type Config struct {
	// initial capacity of each per-location label buffer
	MaxReservedLabelsCount int
	// iterations after the first meeting of a pair during which a cheaper
	// meeting may supersede it
	PairMeetingThreshold int
	// hard cap on labels across all per-location searches of one query
	MaxLabelsHardCap int

	CostThresholdAutoDivisor       float64
	CostThresholdBicycleDivisor    float64
	CostThresholdPedestrianDivisor float64

	// attach an encoded polyline of the recosted path to each found cell
	IncludeShape bool
}

func DefaultConfig() Config {
	return Config{
		MaxReservedLabelsCount:         DEFAULT_MAX_RESERVED_LABELS_COUNT,
		PairMeetingThreshold:           DEFAULT_PAIR_MEETING_THRESHOLD,
		MaxLabelsHardCap:               DEFAULT_MAX_LABELS_HARD_CAP,
		CostThresholdAutoDivisor:       COST_THRESHOLD_AUTO_DIVISOR,
		CostThresholdBicycleDivisor:    COST_THRESHOLD_BICYCLE_DIVISOR,
		CostThresholdPedestrianDivisor: COST_THRESHOLD_PEDESTRIAN_DIVISOR,
	}
}

// ConfigFromViper read the matrix tunables, falling back to the defaults.
func ConfigFromViper() Config {
	viper.SetDefault("matrix.max_reserved_labels_count", DEFAULT_MAX_RESERVED_LABELS_COUNT)
	viper.SetDefault("matrix.pair_meeting_threshold", DEFAULT_PAIR_MEETING_THRESHOLD)
	viper.SetDefault("matrix.max_labels_hard_cap", DEFAULT_MAX_LABELS_HARD_CAP)
	viper.SetDefault("matrix.cost_threshold_auto_divisor", COST_THRESHOLD_AUTO_DIVISOR)
	viper.SetDefault("matrix.cost_threshold_bicycle_divisor", COST_THRESHOLD_BICYCLE_DIVISOR)
	viper.SetDefault("matrix.cost_threshold_pedestrian_divisor", COST_THRESHOLD_PEDESTRIAN_DIVISOR)

	return Config{
		MaxReservedLabelsCount:         viper.GetInt("matrix.max_reserved_labels_count"),
		PairMeetingThreshold:           viper.GetInt("matrix.pair_meeting_threshold"),
		MaxLabelsHardCap:               viper.GetInt("matrix.max_labels_hard_cap"),
		CostThresholdAutoDivisor:       viper.GetFloat64("matrix.cost_threshold_auto_divisor"),
		CostThresholdBicycleDivisor:    viper.GetFloat64("matrix.cost_threshold_bicycle_divisor"),
		CostThresholdPedestrianDivisor: viper.GetFloat64("matrix.cost_threshold_pedestrian_divisor"),
	}
}
