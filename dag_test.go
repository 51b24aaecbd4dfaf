/*
	Copyright (C) 2023 flxj(https://github.com/flxj)

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

		http://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package gmatch

import (
	"errors"
	"testing"
)

// checkDAG asserts the orientation invariants: every undirected query
// edge directed exactly once, root without parents, all vertices
// reachable from the root, no cycles.
func checkDAG(t *testing.T, q *Graph, d *QueryDAG) {
	t.Helper()

	if got := d.NumParents(d.Root); got != 0 {
		t.Errorf("root %d has %d parents; want 0", d.Root, got)
	}

	directed := func(from, to Vertex) int {
		n := 0
		for _, c := range d.Children(from) {
			if c == to {
				n++
			}
		}
		return n
	}
	for v := 0; v < q.NumVertices(); v++ {
		for _, w := range q.Neighbors(Vertex(v)) {
			if Vertex(v) > w {
				continue
			}
			if got := directed(Vertex(v), w) + directed(w, Vertex(v)); got != 1 {
				t.Errorf("edge {%d,%d} directed %d times; want 1", v, w, got)
			}
		}
	}
	for v := 0; v < q.NumVertices(); v++ {
		for _, c := range d.Children(Vertex(v)) {
			found := false
			for _, p := range d.Parents(c) {
				if p == Vertex(v) {
					found = true
				}
			}
			if !found {
				t.Errorf("child edge %d->%d lacks the parent entry", v, c)
			}
		}
	}

	// reachability from the root over child edges
	seen := make([]bool, q.NumVertices())
	queue := []Vertex{d.Root}
	seen[d.Root] = true
	count := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		count++
		for _, c := range d.Children(v) {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	if count != q.NumVertices() {
		t.Errorf("root reaches %d of %d vertices", count, q.NumVertices())
	}

	// acyclicity via Kahn's algorithm on the child lists
	indeg := make([]int, q.NumVertices())
	for v := 0; v < q.NumVertices(); v++ {
		indeg[v] = d.NumParents(Vertex(v))
	}
	var ready []Vertex
	for v := 0; v < q.NumVertices(); v++ {
		if indeg[v] == 0 {
			ready = append(ready, Vertex(v))
		}
	}
	removed := 0
	for len(ready) > 0 {
		v := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		removed++
		for _, c := range d.Children(v) {
			indeg[c]--
			if indeg[c] == 0 {
				ready = append(ready, c)
			}
		}
	}
	if removed != q.NumVertices() {
		t.Errorf("DAG has a cycle: removed %d of %d vertices", removed, q.NumVertices())
	}
}

func TestFindRootPicksSelectiveVertex(t *testing.T) {
	// data: star center label 1, three leaves label 2
	g, lm := buildGraph(t, []Label{1, 2, 2, 2},
		[]edge{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}}, nil)
	// query: one center-leaf edge
	q, _ := buildGraph(t, []Label{1, 2}, []edge{{0, 1, 0}}, lm)

	d, err := BuildQueryDAG(q, g)
	if err != nil {
		t.Fatalf("build DAG: %v", err)
	}
	// one data vertex hosts query vertex 0, three host query vertex 1
	if d.Root != 0 {
		t.Errorf("root = %d; want 0", d.Root)
	}
	checkDAG(t, q, d)
}

func TestBuildQueryDAGInvariants(t *testing.T) {
	// uniform labels: a 5-vertex query with a cycle and a tail
	labels := []Label{1, 1, 1, 1, 1}
	edges := []edge{{0, 1, 0}, {1, 2, 0}, {2, 0, 0}, {2, 3, 0}, {3, 4, 0}}
	g, lm := buildGraph(t, labels, edges, nil)
	q, _ := buildGraph(t, labels, edges, lm)

	d, err := BuildQueryDAG(q, g)
	if err != nil {
		t.Fatalf("build DAG: %v", err)
	}
	checkDAG(t, q, d)
}

func TestSingleVertexQueryRootsAtZero(t *testing.T) {
	g, lm := buildGraph(t, []Label{1, 1, 1},
		[]edge{{0, 1, 0}, {1, 2, 0}, {2, 0, 0}}, nil)
	q, _ := buildGraph(t, []Label{1}, nil, lm)

	d, err := BuildQueryDAG(q, g)
	if err != nil {
		t.Fatalf("build DAG: %v", err)
	}
	if d.Root != 0 {
		t.Errorf("root = %d; want 0", d.Root)
	}
	if d.NumParents(0) != 0 || d.NumChildren(0) != 0 {
		t.Error("single-vertex DAG must have no edges")
	}
}

func TestDisconnectedQueryRejected(t *testing.T) {
	g, lm := buildGraph(t, []Label{1, 1}, []edge{{0, 1, 0}}, nil)
	q, _ := buildGraph(t, []Label{1, 1}, nil, lm)

	if _, err := BuildQueryDAG(q, g); !errors.Is(err, ErrDisconnectedQuery) {
		t.Errorf("disconnected query: want ErrDisconnectedQuery, got %v", err)
	}
}

func TestFrontierOrderPrefersRareLabels(t *testing.T) {
	// data: label 1 appears once, label 2 twice, label 3 three times
	g, lm := buildGraph(t, []Label{1, 2, 2, 3, 3, 3},
		[]edge{{0, 1, 0}, {0, 3, 0}, {1, 3, 0}, {1, 2, 0}, {3, 4, 0}}, nil)
	// query: root 0 (label 1) with two children of labels 3 and 2;
	// the label-2 child is the rarer one and must be finalized first,
	// making it the parent of any shared later neighbor.
	q, _ := buildGraph(t, []Label{1, 3, 2},
		[]edge{{0, 1, 0}, {0, 2, 0}, {1, 2, 0}}, lm)

	d, err := BuildQueryDAG(q, g)
	if err != nil {
		t.Fatalf("build DAG: %v", err)
	}
	checkDAG(t, q, d)
	if d.Root != 0 {
		t.Fatalf("root = %d; want 0", d.Root)
	}
	// frontier {1,2}: label frequency of 2 (query vertex 2) is lower
	// than of 3 (query vertex 1), so 2 finalizes first and edge {1,2}
	// is directed 2 -> 1.
	found := false
	for _, c := range d.Children(2) {
		if c == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected edge 2->1: rarer-label sibling finalizes first")
	}
}
