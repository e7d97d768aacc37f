package cfg

// Equal reports whether x and y are structurally identical: same control
// shape, same condition nodes, and block-for-block equal frozen contents.
// Passes allocate fresh wrapper values even when they rewrite nothing, so
// pointer identity says nothing; the pipeline's fixpoint loop compares
// with Equal instead.
func Equal(x, y Node) bool {
	switch tx := x.(type) {
	case *Block:
		ty, ok := y.(*Block)
		return ok && tx.Frozen.Equal(ty.Frozen)
	case Seq:
		ty, ok := y.(Seq)
		if !ok || len(tx.Children) != len(ty.Children) {
			return false
		}
		for i := range tx.Children {
			if !Equal(tx.Children[i], ty.Children[i]) {
				return false
			}
		}
		return true
	case *If:
		ty, ok := y.(*If)
		return ok && tx.Cond == ty.Cond && Equal(tx.Then, ty.Then)
	case *Loop:
		ty, ok := y.(*Loop)
		return ok && Equal(tx.Body, ty.Body)
	default:
		return false
	}
}
