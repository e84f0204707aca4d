package state

// EntityMap is a keyed, deduplicated collection of records. Values are
// never mutated in place: every write returns a new map and leaves the
// receiver untouched, so a snapshot handed to a subscriber stays valid.
// Keys keep first-arrival order, which is the order pages were loaded in.
type EntityMap[K comparable, V any] struct {
	ids  []K
	byID map[K]V
}

// NewEntityMap builds a map from items using key to extract identifiers
func NewEntityMap[K comparable, V any](key func(V) K, items ...V) EntityMap[K, V] {
	return EntityMap[K, V]{}.UpsertMany(key, items)
}

// Len returns the number of entities
func (m EntityMap[K, V]) Len() int {
	return len(m.ids)
}

// Get returns the entity for id
func (m EntityMap[K, V]) Get(id K) (V, bool) {
	v, ok := m.byID[id]
	return v, ok
}

// Has reports whether id is present
func (m EntityMap[K, V]) Has(id K) bool {
	_, ok := m.byID[id]
	return ok
}

// IDs returns the keys in arrival order
func (m EntityMap[K, V]) IDs() []K {
	out := make([]K, len(m.ids))
	copy(out, m.ids)
	return out
}

// Values returns the entities in arrival order
func (m EntityMap[K, V]) Values() []V {
	out := make([]V, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.byID[id])
	}
	return out
}

func (m EntityMap[K, V]) clone(extra int) EntityMap[K, V] {
	ids := make([]K, len(m.ids), len(m.ids)+extra)
	copy(ids, m.ids)
	byID := make(map[K]V, len(m.byID)+extra)
	for k, v := range m.byID {
		byID[k] = v
	}
	return EntityMap[K, V]{ids: ids, byID: byID}
}

// Upsert inserts or replaces a single entity
func (m EntityMap[K, V]) Upsert(key func(V) K, v V) EntityMap[K, V] {
	return m.UpsertMany(key, []V{v})
}

// UpsertMany inserts new entities at the end and replaces existing ones in place
func (m EntityMap[K, V]) UpsertMany(key func(V) K, items []V) EntityMap[K, V] {
	if len(items) == 0 && m.byID != nil {
		return m
	}
	out := m.clone(len(items))
	for _, v := range items {
		id := key(v)
		if _, exists := out.byID[id]; !exists {
			out.ids = append(out.ids, id)
		}
		out.byID[id] = v
	}
	return out
}

// Prepend inserts new entities ahead of existing ones. Entities already
// present are replaced but keep their position.
func (m EntityMap[K, V]) Prepend(key func(V) K, items []V) EntityMap[K, V] {
	out := m.clone(len(items))
	var head []K
	for _, v := range items {
		id := key(v)
		if _, exists := out.byID[id]; !exists {
			head = append(head, id)
		}
		out.byID[id] = v
	}
	out.ids = append(head, out.ids...)
	return out
}

// SetAll replaces the whole map with items
func (m EntityMap[K, V]) SetAll(key func(V) K, items []V) EntityMap[K, V] {
	return EntityMap[K, V]{}.UpsertMany(key, items)
}

// Update applies fn to the entity for id if present
func (m EntityMap[K, V]) Update(id K, fn func(V) V) EntityMap[K, V] {
	v, ok := m.byID[id]
	if !ok {
		return m
	}
	out := m.clone(0)
	out.byID[id] = fn(v)
	return out
}

// Remove deletes the given ids
func (m EntityMap[K, V]) Remove(ids ...K) EntityMap[K, V] {
	drop := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.byID[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return m
	}
	out := EntityMap[K, V]{
		ids:  make([]K, 0, len(m.ids)-len(drop)),
		byID: make(map[K]V, len(m.byID)-len(drop)),
	}
	for _, id := range m.ids {
		if _, gone := drop[id]; gone {
			continue
		}
		out.ids = append(out.ids, id)
		out.byID[id] = m.byID[id]
	}
	return out
}

// Clear returns an empty map
func (m EntityMap[K, V]) Clear() EntityMap[K, V] {
	return EntityMap[K, V]{}
}
