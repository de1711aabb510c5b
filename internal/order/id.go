package order

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out order ids. Two calls never return the same id.
type IDGenerator interface {
	NewID() string
}

// SequenceIDs combines a monotonic counter with a random suffix, so ids stay
// unique within the process and are unlikely to repeat across restarts.
type SequenceIDs struct {
	next atomic.Uint64
}

func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{}
}

func (g *SequenceIDs) NewID() string {
	n := g.next.Add(1)
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("ORD-%06d-%s", n, suffix)
}

var _ IDGenerator = (*SequenceIDs)(nil)
