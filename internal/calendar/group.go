package calendar

// ClusterEntry records a booking together with the ids of the bookings it
// directly overlaps, itself included. Ids appear in discovery order, so the
// slice doubles as the column order: a booking's column index is the position
// of its own id within its entry, which equals the number of earlier
// overlapping bookings in the batch.
type ClusterEntry struct {
	Booking  Booking
	Overlaps []string
}

// GroupOverlapping partitions a render batch into per-booking overlap sets
// using an O(n²) pairwise scan; n is bounded by one visible week so the
// quadratic cost is irrelevant.
//
// The sets are pairwise, not transitive: when A overlaps B and B overlaps C
// but A and C are disjoint, A's entry is {A,B}, B's is {A,B,C} and C's is
// {B,C}. Layout is written against this pairwise shape; collapsing the sets
// into connected components would change rendered widths for every 3+-way
// cluster.
func GroupOverlapping(bookings []Booking) map[string]*ClusterEntry {
	clusters := make(map[string]*ClusterEntry, len(bookings))

	ensure := func(b Booking) *ClusterEntry {
		entry, ok := clusters[b.ID]
		if !ok {
			entry = &ClusterEntry{Booking: b}
			clusters[b.ID] = entry
		}
		return entry
	}

	for i := 0; i < len(bookings); i++ {
		entry := ensure(bookings[i])
		// Self joins its own set only once the scan reaches it, after any
		// earlier overlapping bookings already claimed their positions.
		addOverlap(entry, bookings[i].ID)

		for j := i + 1; j < len(bookings); j++ {
			if !Overlaps(bookings[i], bookings[j]) {
				continue
			}
			addOverlap(entry, bookings[j].ID)
			addOverlap(ensure(bookings[j]), bookings[i].ID)
		}
	}

	return clusters
}

// ColumnIndex returns the booking's 0-based position within its overlap set,
// or -1 when the id is absent.
func (e *ClusterEntry) ColumnIndex() int {
	if e == nil {
		return -1
	}
	for i, id := range e.Overlaps {
		if id == e.Booking.ID {
			return i
		}
	}
	return -1
}

func addOverlap(entry *ClusterEntry, id string) {
	for _, existing := range entry.Overlaps {
		if existing == id {
			return
		}
	}
	entry.Overlaps = append(entry.Overlaps, id)
}
