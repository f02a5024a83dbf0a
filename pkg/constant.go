package pkg

// enum of travel_mode
type TravelMode uint8

const (
	TRAVEL_MODE_AUTO TravelMode = iota
	TRAVEL_MODE_BICYCLE
	TRAVEL_MODE_PEDESTRIAN
)

func (tm TravelMode) String() string {
	switch tm {
	case TRAVEL_MODE_AUTO:
		return "auto"
	case TRAVEL_MODE_BICYCLE:
		return "bicycle"
	case TRAVEL_MODE_PEDESTRIAN:
		return "pedestrian"
	default:
		return "unknown"
	}
}

// access bitmask per travel mode, stored on every directed edge
const (
	AUTO_ACCESS       uint32 = 1 << 0
	BICYCLE_ACCESS    uint32 = 1 << 1
	PEDESTRIAN_ACCESS uint32 = 1 << 2

	ALL_ACCESS uint32 = AUTO_ACCESS | BICYCLE_ACCESS | PEDESTRIAN_ACCESS
)

const (
	INF_WEIGHT float64 = 1e15

	SECONDS_PER_DAY = 86400
)

// hierarchy levels of the road graph. higher classes of road live on
// lower-numbered levels and are preferred far away from the endpoints.
const (
	HIGHWAY_LEVEL  uint8 = 0
	ARTERIAL_LEVEL uint8 = 1
	LOCAL_LEVEL    uint8 = 2

	NUM_HIERARCHY_LEVELS = 3
)

type RoadClass uint8

// enum of osm highway classes used for routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
const (
	MOTORWAY RoadClass = iota
	TRUNK
	PRIMARY
	SECONDARY
	TERTIARY
	UNCLASSIFIED
	RESIDENTIAL
	SERVICE_OTHER
)

func GetRoadClass(highway string) (RoadClass, bool) {
	switch highway {
	case "motorway", "motorway_link":
		return MOTORWAY, true
	case "trunk", "trunk_link":
		return TRUNK, true
	case "primary", "primary_link":
		return PRIMARY, true
	case "secondary", "secondary_link":
		return SECONDARY, true
	case "tertiary", "tertiary_link":
		return TERTIARY, true
	case "unclassified", "road":
		return UNCLASSIFIED, true
	case "residential", "living_street":
		return RESIDENTIAL, true
	case "service", "track":
		return SERVICE_OTHER, true
	default:
		return SERVICE_OTHER, false
	}
}

// HierarchyLevel maps a road class onto the three-level hierarchy.
func (rc RoadClass) HierarchyLevel() uint8 {
	switch {
	case rc <= TRUNK:
		return HIGHWAY_LEVEL
	case rc <= TERTIARY:
		return ARTERIAL_LEVEL
	default:
		return LOCAL_LEVEL
	}
}

// DefaultSpeedKmh default speed per road class when the way carries no
// maxspeed tag.
func (rc RoadClass) DefaultSpeedKmh() float64 {
	switch rc {
	case MOTORWAY:
		return 100.0
	case TRUNK:
		return 80.0
	case PRIMARY:
		return 60.0
	case SECONDARY:
		return 50.0
	case TERTIARY:
		return 40.0
	case UNCLASSIFIED:
		return 30.0
	case RESIDENTIAL:
		return 25.0
	default:
		return 15.0
	}
}
