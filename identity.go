package medusa

import (
	"encoding/hex"
	"weak"

	"github.com/google/uuid"
)

// IDGenerator produces practically-unique identity strings.
type IDGenerator func() string

// RandomID returns 12 lowercase hex characters drawn from the random bytes
// of a version 4 UUID.
func RandomID() string {
	u := uuid.New()
	// Bytes 0..5 carry no version or variant bits.
	return hex.EncodeToString(u[:6])
}

// sweepEvery is the growth in tag count between sweeps of collected nodes.
const sweepEvery = 256

// Identity tags nodes with stable identity strings without touching the
// nodes. Tags are held through weak pointers, so tagging never keeps a node
// alive.
type Identity struct {
	gen       IDGenerator
	tags      map[weak.Pointer[Node]]string
	nextSweep int
}

// NewIdentity creates an Identity. A nil gen uses RandomID.
func NewIdentity(gen IDGenerator) *Identity {
	if gen == nil {
		gen = RandomID
	}
	return &Identity{
		gen:       gen,
		tags:      make(map[weak.Pointer[Node]]string),
		nextSweep: sweepEvery,
	}
}

// Assign returns n's tag, generating one if n has none yet.
func (id *Identity) Assign(n *Node) string {
	key := weak.Make(n)
	if tag, ok := id.tags[key]; ok {
		return tag
	}
	if len(id.tags) >= id.nextSweep {
		id.sweep()
	}
	tag := id.gen()
	id.tags[key] = tag
	return tag
}

// Of returns n's tag and whether it has one.
func (id *Identity) Of(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	tag, ok := id.tags[weak.Make(n)]
	return tag, ok
}

// Len returns the number of tags held, including tags of nodes that were
// collected but not yet swept.
func (id *Identity) Len() int {
	return len(id.tags)
}

// Reset drops every tag.
func (id *Identity) Reset() {
	clear(id.tags)
	id.nextSweep = sweepEvery
}

// sweep drops tags whose node has been garbage collected.
func (id *Identity) sweep() {
	for k := range id.tags {
		if k.Value() == nil {
			delete(id.tags, k)
		}
	}
	id.nextSweep = len(id.tags) + sweepEvery
}
