package services

import (
	"fmt"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// MaxLocations is the coordinate cap documented by the matrix provider,
// origin and destination included.
const MaxLocations = 25

const (
	originIndex      = 0
	destinationIndex = 1
	firstStopIndex   = 2
)

// TripInput is the role-tagged location list supplied by the caller.
type TripInput struct {
	Origin      *domain.Location
	Destination *domain.Location
	Mandatory   []domain.Location
	Optional    []domain.Location
}

// Universe is the validated, indexed set of stops for one optimization run.
//
// Stops[0] is the origin, Stops[1] the destination, Stops[2:2+m] the mandatory
// stops and the remainder the optional stops, all in input order.
type Universe struct {
	Stops          []domain.Stop
	MandatoryCount int
	OptionalCount  int
}

func (u *Universe) Origin() domain.Stop      { return u.Stops[originIndex] }
func (u *Universe) Destination() domain.Stop { return u.Stops[destinationIndex] }

// MandatoryMask has one bit set per mandatory stop index.
func (u *Universe) MandatoryMask() uint32 {
	var mask uint32
	for i := 0; i < u.MandatoryCount; i++ {
		mask |= 1 << (firstStopIndex + i)
	}
	return mask
}

// OptionalIndex returns the universe index of the i-th optional stop.
func (u *Universe) OptionalIndex(i int) int {
	return firstStopIndex + u.MandatoryCount + i
}

// IDs returns every stop identifier in index order.
func (u *Universe) IDs() []string {
	ids := make([]string, len(u.Stops))
	for i, s := range u.Stops {
		ids[i] = s.ID
	}
	return ids
}

// Locations returns every location in index order.
func (u *Universe) Locations() []domain.Location {
	locs := make([]domain.Location, len(u.Stops))
	for i, s := range u.Stops {
		locs[i] = s.Location
	}
	return locs
}

// BuildUniverse validates the trip input and assigns stable stop indices.
// It fails fast with a *domain.ValidationError and never returns a partial universe.
func BuildUniverse(in TripInput) (*Universe, error) {
	if in.Origin == nil {
		return nil, &domain.ValidationError{Field: "origin", Reason: "origin is required"}
	}
	if in.Destination == nil {
		return nil, &domain.ValidationError{Field: "destination", Reason: "destination is required"}
	}

	total := 2 + len(in.Mandatory) + len(in.Optional)
	if total > MaxLocations {
		return nil, &domain.ValidationError{
			Field:  "stops",
			Reason: fmt.Sprintf("%d locations exceed the limit of %d (origin and destination included)", total, MaxLocations),
		}
	}

	u := &Universe{
		Stops:          make([]domain.Stop, 0, total),
		MandatoryCount: len(in.Mandatory),
		OptionalCount:  len(in.Optional),
	}

	ids := make(map[string]domain.Role, total)
	coords := make(map[domain.Coordinates]domain.Stop, total)

	add := func(field string, loc domain.Location, role domain.Role) error {
		if loc.ID == "" {
			return &domain.ValidationError{Field: field, Reason: "location id must be non-empty"}
		}
		if !loc.Coordinates.Valid() {
			return &domain.ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("location %q has invalid coordinates (lon=%v lat=%v)", loc.ID, loc.Coordinates.Lon, loc.Coordinates.Lat),
			}
		}
		if prev, ok := ids[loc.ID]; ok {
			return &domain.ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("location id %q already used by the %s", loc.ID, prev),
			}
		}
		if prev, ok := coords[loc.Coordinates]; ok {
			reason := fmt.Sprintf("duplicate stop: %q and %q share coordinates", prev.ID, loc.ID)
			if prev.Role != role {
				reason = fmt.Sprintf(
					"role conflict: %q (%s) and %q (%s) share coordinates",
					prev.ID, prev.Role, loc.ID, role,
				)
			}
			return &domain.ValidationError{Field: field, Reason: reason}
		}

		stop := domain.Stop{Location: loc, Role: role, Index: len(u.Stops)}
		ids[loc.ID] = role
		coords[loc.Coordinates] = stop
		u.Stops = append(u.Stops, stop)
		return nil
	}

	if err := add("origin", *in.Origin, domain.RoleOrigin); err != nil {
		return nil, err
	}
	if err := add("destination", *in.Destination, domain.RoleDestination); err != nil {
		return nil, err
	}
	for i, loc := range in.Mandatory {
		if err := add(fmt.Sprintf("mandatory[%d]", i), loc, domain.RoleMandatory); err != nil {
			return nil, err
		}
	}
	for i, loc := range in.Optional {
		if err := add(fmt.Sprintf("optional[%d]", i), loc, domain.RoleOptional); err != nil {
			return nil, err
		}
	}

	return u, nil
}
