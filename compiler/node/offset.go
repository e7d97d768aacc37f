package node

import "fmt"

// Offset is a signed displacement from the data pointer at the entry of
// some Block. Negative offsets address cells to the left of p.
type Offset int64

// Add returns the offset shifted by delta.
func (o Offset) Add(delta int64) Offset { return o + Offset(delta) }

func (o Offset) String() string {
	return fmt.Sprintf("%d", int64(o))
}

// BlockID names the effectful region a Copy node reads its value from. IDs
// are unique per Arena and never reused.
type BlockID int32

func (b BlockID) String() string { return fmt.Sprintf("b%d", int32(b)) }

// InputID names the i-th byte read from standard input. Assigned
// monotonically; never reused, never deduplicated.
type InputID int32

func (i InputID) String() string { return fmt.Sprintf("in%d", int32(i)) }
