package screenshot

// Queue is a bounded, capture-ordered list of file paths that all live in one
// directory. It holds no lock of its own; Manager serialises access.
type Queue struct {
	view     View
	dir      string
	capacity int
	items    []string
}

func newQueue(view View, dir string, capacity int) *Queue {
	return &Queue{
		view:     view,
		dir:      dir,
		capacity: capacity,
		items:    make([]string, 0, capacity+1),
	}
}

// Push appends path and returns whatever had to be evicted, oldest first,
// to bring the queue back within capacity.
func (q *Queue) Push(path string) []string {
	q.items = append(q.items, path)
	if len(q.items) <= q.capacity {
		return nil
	}

	overflow := len(q.items) - q.capacity
	evicted := make([]string, overflow)
	copy(evicted, q.items[:overflow])
	q.items = append(q.items[:0], q.items[overflow:]...)
	return evicted
}

// Remove drops every occurrence of path and reports whether anything was removed.
func (q *Queue) Remove(path string) bool {
	kept := q.items[:0]
	removed := false
	for _, item := range q.items {
		if item == path {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	return removed
}

// Contains reports whether path is queued.
func (q *Queue) Contains(path string) bool {
	for _, item := range q.items {
		if item == path {
			return true
		}
	}
	return false
}

// Reset empties the queue and returns what it held.
func (q *Queue) Reset() []string {
	old := q.Items()
	q.items = q.items[:0]
	return old
}

// Items returns a copy of the queued paths in capture order.
func (q *Queue) Items() []string {
	out := make([]string, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued paths.
func (q *Queue) Len() int { return len(q.items) }

// Dir returns the directory this queue's files live in.
func (q *Queue) Dir() string { return q.dir }

// Capacity returns the maximum number of retained paths.
func (q *Queue) Capacity() int { return q.capacity }

// View returns the view this queue serves.
func (q *Queue) View() View { return q.view }
