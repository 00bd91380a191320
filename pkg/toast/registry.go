package toast

// registry is the ordered set of active toast records. The backing slice is
// oldest-first so inserts append; iteration runs newest-first.
type registry struct {
	items []*record
	index map[ID]*record
}

func newRegistry() *registry {
	return &registry{index: make(map[ID]*record)}
}

// insert adds rec as the newest record.
func (r *registry) insert(rec *record) {
	if _, ok := r.index[rec.id]; ok {
		return
	}
	r.items = append(r.items, rec)
	r.index[rec.id] = rec
}

// remove evicts the record with id and returns it, or nil if absent.
func (r *registry) remove(id ID) *record {
	rec, ok := r.index[id]
	if !ok {
		return nil
	}
	delete(r.index, id)
	for i, item := range r.items {
		if item == rec {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	return rec
}

func (r *registry) find(id ID) *record {
	return r.index[id]
}

func (r *registry) len() int {
	return len(r.items)
}

// each visits records newest-first until fn returns false.
func (r *registry) each(fn func(*record) bool) {
	for i := len(r.items) - 1; i >= 0; i-- {
		if !fn(r.items[i]) {
			return
		}
	}
}

// oldest returns the oldest record accepted by match, or nil.
func (r *registry) oldest(match func(*record) bool) *record {
	for _, rec := range r.items {
		if match(rec) {
			return rec
		}
	}
	return nil
}
