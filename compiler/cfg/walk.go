package cfg

// Walk visits n and every descendant, depth-first, calling visit on each
// node before descending into its children.
func Walk(n Node, visit func(Node)) {
	visit(n)
	switch t := n.(type) {
	case *Block:
	case Seq:
		for _, c := range t.Children {
			Walk(c, visit)
		}
	case *If:
		Walk(t.Then, visit)
	case *Loop:
		Walk(t.Body, visit)
	}
}

// Transform rebuilds n bottom-up, replacing each node with the result of
// applying f to it after its children have already been transformed.
func Transform(n Node, f func(Node) Node) Node {
	switch t := n.(type) {
	case *Block:
		return f(t)
	case Seq:
		children := make([]Node, 0, len(t.Children))
		for _, c := range t.Children {
			children = append(children, Transform(c, f))
		}
		return f(Flatten(Seq{Children: children}))
	case *If:
		return f(&If{Cond: t.Cond, Then: Transform(t.Then, f)})
	case *Loop:
		return f(&Loop{Body: Transform(t.Body, f)})
	default:
		return f(n)
	}
}
