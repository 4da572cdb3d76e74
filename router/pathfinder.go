package router

import (
	"github.com/xlnfinance/xln-sub004/rdb"
)

type PathBounds struct {
	MaxHops       int
	MaxCandidates int
	// MinIntermediaries only applies to self-payments.
	MinIntermediaries int
}

// findPaths enumerates simple paths between source and destination with a
// depth-first search. When source equals destination it looks for loops
// that leave the source and come back through at least MinIntermediaries
// distinct entities.
//
// ----------    -----    -----    ---------------
// | source | -- | A | -- | B | -- | destination |
// ----------    -----    -----    ---------------
//
// ----------    -----    -----    ----------
// | source | -- | A | -- | B | -- | source |
// ----------    -----    -----    ----------
//
// The search stops producing paths once MaxCandidates are found.
func findPaths(graph *Graph, source, destination rdb.EntityId, bounds PathBounds) []rdb.Path {
	if !graph.HasEntity(source) || !graph.HasEntity(destination) {
		return nil
	}
	if bounds.MaxHops < 1 || bounds.MaxCandidates < 1 {
		return nil
	}

	w := &pathWalker{
		graph:       graph,
		source:      source,
		destination: destination,
		self:        source == destination,
		bounds:      bounds,
		used:        map[rdb.EntityId]bool{source: true},
		path:        rdb.Path{source},
		seen:        make(map[string]struct{}),
	}

	if w.self && w.bounds.MinIntermediaries < 1 {
		w.bounds.MinIntermediaries = 1
	}

	w.visit(source)

	return w.paths
}

type pathWalker struct {
	graph       *Graph
	source      rdb.EntityId
	destination rdb.EntityId
	self        bool
	bounds      PathBounds
	used        map[rdb.EntityId]bool
	path        rdb.Path
	seen        map[string]struct{}
	paths       []rdb.Path
}

func (w *pathWalker) full() bool {
	return len(w.paths) >= w.bounds.MaxCandidates
}

func (w *pathWalker) visit(current rdb.EntityId) {
	// Stepping to a neighbor adds hop number len(path).
	if len(w.path) > w.bounds.MaxHops {
		return
	}

	for _, next := range w.graph.Neighbors(current) {
		if w.full() {
			return
		}

		if w.self && next == w.source {
			// Going home is only allowed once enough entities were visited.
			if len(w.path)-1 >= w.bounds.MinIntermediaries {
				w.emit(next)
			}
			continue
		}

		if !w.self && next == w.destination {
			w.emit(next)
			continue
		}

		if w.used[next] {
			continue
		}

		w.used[next] = true
		w.path = append(w.path, next)

		w.visit(next)

		w.path = w.path[:len(w.path)-1]
		delete(w.used, next)
	}
}

func (w *pathWalker) emit(terminal rdb.EntityId) {
	path := make(rdb.Path, len(w.path), len(w.path)+1)
	copy(path, w.path)
	path = append(path, terminal)

	signature := path.Signature()
	if _, ok := w.seen[signature]; ok {
		return
	}
	w.seen[signature] = struct{}{}

	w.paths = append(w.paths, path)
}
