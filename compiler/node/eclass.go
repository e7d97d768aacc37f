package node

import "tlog.app/go/tlog"

// eclass is one equivalence class in the e-graph introspection variant: a
// group of ids known to compute the same value, with a single canonical id
// chosen by pass priority and a history of the versions that produced
// membership. Retained for introspection only; no equality saturation is
// ever run over the classes.
type eclass struct {
	canonical ID
	versions  []version
}

type version struct {
	id         ID
	producedBy string
}

// Union records that next computes the same value as old's class, keeping
// old's current canonical id unless promote is true, in which case next
// becomes canonical. Existing equivalences are never overwritten, only
// added to.
//
// Union is a no-op unless the arena was constructed with the e-graph
// variant enabled; the tree variant has no classes to update.
func (a *Arena) Union(old, next ID, pass string, promote bool) {
	if !a.egraph {
		return
	}
	cl, ok := a.classes[old]
	if !ok {
		cl = eclass{canonical: old}
	}
	cl.versions = append(cl.versions, version{id: next, producedBy: pass})
	if promote {
		cl.canonical = next
	}
	a.classes[old] = cl
	if _, ok := a.classes[next]; !ok {
		a.classes[next] = cl
	}
	if a.Debug {
		tlog.Printw("eclass union", "old", old, "next", next, "pass", pass, "canonical", cl.canonical)
	}
}

// Canonical returns the class's canonical id for id, or id itself if it has
// no recorded class (including whenever the e-graph variant is disabled).
func (a *Arena) Canonical(id ID) ID {
	if !a.egraph {
		return id
	}
	if cl, ok := a.classes[id]; ok {
		return cl.canonical
	}
	return id
}

// History returns the name of the pass that produced each recorded version
// in id's class, oldest first. Nothing in the pipeline or the CLI prints
// it. Empty when the e-graph variant is disabled or id has no recorded
// history.
func (a *Arena) History(id ID) []string {
	if !a.egraph {
		return nil
	}
	cl, ok := a.classes[id]
	if !ok {
		return nil
	}
	out := make([]string, len(cl.versions))
	for i, v := range cl.versions {
		out[i] = v.producedBy
	}
	return out
}
