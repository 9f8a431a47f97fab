package models

// Participant roles (binary opposite pairing)
const (
	RoleBuilder    = "builder"
	RoleStrategist = "strategist"
)

// Match statuses
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// OppositeRole returns the role a participant is matched against.
// Unknown roles map to "" so callers can reject them up front.
func OppositeRole(role string) string {
	switch role {
	case RoleBuilder:
		return RoleStrategist
	case RoleStrategist:
		return RoleBuilder
	default:
		return ""
	}
}
