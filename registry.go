package medusa

import "slices"

// registry owns the targets, keyed by id, in insertion order.
type registry struct {
	byID  map[string]*Target
	order []string
}

func newRegistry() *registry {
	return &registry{byID: make(map[string]*Target)}
}

// add registers t. It returns a DuplicateIDError when the id is taken.
func (r *registry) add(t *Target) error {
	if _, ok := r.byID[t.id]; ok {
		return &DuplicateIDError{ID: t.id}
	}
	r.byID[t.id] = t
	r.order = append(r.order, t.id)
	return nil
}

func (r *registry) get(id string) *Target {
	return r.byID[id]
}

// remove deletes t's entry. An entry that now holds a different target
// under the same id is left alone.
func (r *registry) remove(t *Target) bool {
	if cur, ok := r.byID[t.id]; !ok || cur != t {
		return false
	}
	delete(r.byID, t.id)
	if i := slices.Index(r.order, t.id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

func (r *registry) ids() []string {
	return slices.Clone(r.order)
}

func (r *registry) len() int {
	return len(r.order)
}
