package loggerkit

// Destination identifies one sink class for log records.
type Destination uint8

const (
	ToConsole Destination = iota
	ToFile
	ToAdapters
)

// Destinations is a set of sinks a record is routed to. Any combination
// is valid, including the empty set. The zero value is empty.
type Destinations struct {
	set map[Destination]struct{}
}

// NewDestinations builds a set from the given members.
func NewDestinations(ds ...Destination) Destinations {
	out := Destinations{set: make(map[Destination]struct{}, len(ds))}
	for _, d := range ds {
		out.set[d] = struct{}{}
	}
	return out
}

// AllDestinations returns {console, file, adapters}.
func AllDestinations() Destinations {
	return NewDestinations(ToConsole, ToFile, ToAdapters)
}

// Contains reports whether d is a member of the set.
func (s Destinations) Contains(d Destination) bool {
	_, ok := s.set[d]
	return ok
}

// Union returns a new set with the members of both operands.
func (s Destinations) Union(other Destinations) Destinations {
	out := Destinations{set: make(map[Destination]struct{}, len(s.set)+len(other.set))}
	for d := range s.set {
		out.set[d] = struct{}{}
	}
	for d := range other.set {
		out.set[d] = struct{}{}
	}
	return out
}

// Len returns the number of members.
func (s Destinations) Len() int {
	return len(s.set)
}
