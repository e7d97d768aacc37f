package cfg

import "github.com/bfrs/bfrs/compiler/node"

// Validate checks, across the whole tree, that every Block's Delta and
// Output values stay within its own coordinate frame
// (block.Frozen.Validate), never reaching into a sibling block.
func Validate(a *node.Arena, n Node) error {
	var firstErr error
	Walk(n, func(child Node) {
		if firstErr != nil {
			return
		}
		if b, ok := child.(*Block); ok {
			firstErr = b.Frozen.Validate(a)
		}
	})
	return firstErr
}
