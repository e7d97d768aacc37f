// Package node implements the pure data nodes of the IR: immutable,
// hash-consed, globally value-numbered expressions over the tape.
package node

// ID is a dense, 1-based identifier for a node in an Arena. The zero value
// is never a valid id.
type ID int32

// Kind tags the variant of a Node.
type Kind uint8

const (
	_ Kind = iota
	KindConst
	KindCopy
	KindInput
	KindAdd
	KindMul
	KindIsZero
	KindIsEven
	KindTrue
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "Const"
	case KindCopy:
		return "Copy"
	case KindInput:
		return "Input"
	case KindAdd:
		return "Add"
	case KindMul:
		return "Mul"
	case KindIsZero:
		return "IsZero"
	case KindIsEven:
		return "IsEven"
	case KindTrue:
		return "True"
	default:
		return "?"
	}
}

// Node is a tagged union of the pure expression variants. It is a plain
// comparable struct (not an interface) so it can serve directly as a map
// key for hash-consing; Kind documents which of its fields are live.
type Node struct {
	Kind Kind

	// Const
	K uint8

	// Copy
	Offset Offset
	Block  BlockID

	// Input
	In InputID

	// Add, Mul, IsZero, IsEven: L is the sole operand for the unary
	// predicates.
	L, R ID
}

func constNode(k uint8) Node            { return Node{Kind: KindConst, K: k} }
func copyNode(o Offset, b BlockID) Node { return Node{Kind: KindCopy, Offset: o, Block: b} }
func inputNode(i InputID) Node          { return Node{Kind: KindInput, In: i} }
func addNode(l, r ID) Node              { return Node{Kind: KindAdd, L: l, R: r} }
func mulNode(l, r ID) Node              { return Node{Kind: KindMul, L: l, R: r} }
func isZeroNode(x ID) Node              { return Node{Kind: KindIsZero, L: x} }
func isEvenNode(x ID) Node              { return Node{Kind: KindIsEven, L: x} }
func trueNode() Node                    { return Node{Kind: KindTrue} }
