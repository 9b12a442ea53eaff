// Package clock supplies the current instant normalized to a fixed civil
// timezone. Deadlines are entered and honored against one canonical wall
// clock, never the device's local zone.
package clock

import "time"

// Clock abstracts the time source so the deadline monitor can be tested
// against a fake.
type Clock interface {
	Now() time.Time
}

// Civil is the production clock pinned to one IANA timezone.
type Civil struct {
	loc *time.Location
}

// NewCivil loads the timezone and returns a pinned clock.
func NewCivil(timezone string) (*Civil, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Civil{loc: loc}, nil
}

// Now returns the current instant in the pinned timezone.
func (c *Civil) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location exposes the pinned timezone, for deadline parsing at the API edge.
func (c *Civil) Location() *time.Location {
	return c.loc
}
