package router

import (
	"testing"

	"github.com/xlnfinance/xln-sub004/rdb"
)

// Topology
//
// (A) --- (B)
//   \     /  \
//    \   /    \
//     (C) --- (D) --- (E)
//

func testTopology() *Graph {
	profiles := symmetric(1000,
		[2]string{"Alice", "Bob"},
		[2]string{"Bob", "Charlie"},
		[2]string{"Charlie", "Alice"},
		[2]string{"Charlie", "Dan"},
		[2]string{"Bob", "Dan"},
		[2]string{"Dan", "Erin"},
	)
	return BuildGraph(testToken, nil, profiles)
}

func signatures(paths []rdb.Path) []string {
	s := make([]string, len(paths))
	for i, p := range paths {
		s[i] = p.Signature()
	}
	return s
}

func TestPathfinder(t *testing.T) {
	graph := testTopology()

	paths := findPaths(graph, "alice", "dan", PathBounds{MaxHops: 6, MaxCandidates: 10})

	want := []string{
		"alice>bob>charlie>dan",
		"alice>bob>dan",
		"alice>charlie>bob>dan",
		"alice>charlie>dan",
	}
	got := signatures(paths)
	if len(got) != len(want) {
		t.Fatalf("Expected %v paths; got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected path %v to be %v; got %v", i, want[i], got[i])
		}
	}
}

func TestPathfinderHopBound(t *testing.T) {
	graph := testTopology()

	paths := findPaths(graph, "alice", "dan", PathBounds{MaxHops: 2, MaxCandidates: 10})
	if len(paths) != 2 {
		t.Errorf("Two paths expected; got %v", signatures(paths))
	}

	paths = findPaths(graph, "alice", "erin", PathBounds{MaxHops: 2, MaxCandidates: 10})
	if len(paths) != 0 {
		t.Errorf("No paths expected; got %v", signatures(paths))
	}
}

func TestPathfinderCandidateCap(t *testing.T) {
	graph := testTopology()

	paths := findPaths(graph, "alice", "dan", PathBounds{MaxHops: 6, MaxCandidates: 2})
	if len(paths) != 2 {
		t.Fatalf("Two paths expected; got %v", len(paths))
	}
	if paths[0].Signature() != "alice>bob>charlie>dan" || paths[1].Signature() != "alice>bob>dan" {
		t.Errorf("Expected the first two paths of the search; got %v", signatures(paths))
	}
}

func TestPathfinderSelfLoop(t *testing.T) {
	profiles := symmetric(1000,
		[2]string{"S", "A"},
		[2]string{"A", "B"},
		[2]string{"B", "S"},
	)
	graph := BuildGraph(testToken, nil, profiles)

	paths := findPaths(graph, "s", "s", PathBounds{MaxHops: 6, MaxCandidates: 10, MinIntermediaries: 2})

	got := signatures(paths)
	if len(got) != 2 || got[0] != "s>a>b>s" || got[1] != "s>b>a>s" {
		t.Errorf("Expected loops through a and b; got %v", got)
	}

	for _, p := range paths {
		if p.Signature() == "s>a>s" {
			t.Errorf("One intermediary loop must be rejected")
		}
	}
}

func TestPathfinderSelfLoopNeedsIntermediaries(t *testing.T) {
	profiles := symmetric(1000, [2]string{"S", "A"})
	graph := BuildGraph(testToken, nil, profiles)

	paths := findPaths(graph, "s", "s", PathBounds{MaxHops: 6, MaxCandidates: 10, MinIntermediaries: 2})
	if len(paths) != 0 {
		t.Errorf("No loops expected; got %v", signatures(paths))
	}
}

func TestPathfinderPathsAreSimple(t *testing.T) {
	graph := testTopology()

	for _, destination := range []rdb.EntityId{"erin", "alice"} {
		paths := findPaths(graph, "alice", destination, PathBounds{MaxHops: 6, MaxCandidates: 100, MinIntermediaries: 2})
		if len(paths) == 0 {
			t.Fatalf("Expected paths to %v", destination)
		}

		for _, p := range paths {
			if p[0] != "alice" || p[len(p)-1] != destination {
				t.Errorf("Path %v has wrong ends", p.Signature())
			}

			seen := make(map[rdb.EntityId]bool)
			for _, id := range p.Intermediaries() {
				if seen[id] || id == "alice" {
					t.Errorf("Path %v repeats %v", p.Signature(), id)
				}
				seen[id] = true
			}

			if destination == "alice" && len(p.Intermediaries()) < 2 {
				t.Errorf("Loop %v has too few intermediaries", p.Signature())
			}
		}
	}
}

func TestPathfinderUnknownEntities(t *testing.T) {
	graph := testTopology()

	if paths := findPaths(graph, "alice", "zed", PathBounds{MaxHops: 6, MaxCandidates: 10}); len(paths) != 0 {
		t.Errorf("No paths expected; got %v", signatures(paths))
	}
}
