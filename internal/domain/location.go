package domain

// A named place with a stable identifier, unique within one optimization run.
type Location struct {
	ID          string
	Name        string
	Coordinates Coordinates
}

// Label returns the display name, falling back to the identifier.
func (l Location) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Role of a stop within a trip.
type Role int

const (
	RoleOrigin Role = iota
	RoleDestination
	RoleMandatory
	RoleOptional
)

func (r Role) String() string {
	switch r {
	case RoleOrigin:
		return "origin"
	case RoleDestination:
		return "destination"
	case RoleMandatory:
		return "mandatory"
	case RoleOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// A Location tagged with its role and its index in the stop universe.
//
// Index 0 is the origin, 1 the destination, then mandatory stops, then optional stops.
type Stop struct {
	Location
	Role  Role
	Index int
}
