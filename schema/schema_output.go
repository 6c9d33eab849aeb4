package schema

// EnrichedRide adds presentation data to a Ride.
type EnrichedRide struct {
	Rank        int     `json:"rank"`
	Severity    string  `json:"severity"`
	DurationMin float64 `json:"duration_minutes"`
	AvgSpeed    float64 `json:"avg_speed"`
	Ride
}

// GetManeuverLabel returns a plain text label for how aggressively a ride was driven,
// based on its count of abrupt maneuvers.
func GetManeuverLabel(maneuvers int) string {
	switch {
	case maneuvers >= 20:
		return "Critical"
	case maneuvers >= 10:
		return "High"
	case maneuvers >= 3:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichRides adds rank, severity and derived timing to a list of rides.
// Rank continues from offset so paged output stays numbered across pages.
func EnrichRides(rides []Ride, offset int) []EnrichedRide {
	output := make([]EnrichedRide, len(rides))
	for i, r := range rides {
		output[i] = EnrichedRide{
			Rank:        offset + i + 1,
			Severity:    GetManeuverLabel(r.ManeuverCount()),
			DurationMin: r.Duration().Minutes(),
			AvgSpeed:    r.AvgSpeed(),
			Ride:        r,
		}
	}
	return output
}
