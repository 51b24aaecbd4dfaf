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

	"github.com/google/go-cmp/cmp"
)

type edge struct {
	v1, v2, label int32
}

func buildGraph(t *testing.T, labels []Label, edges []edge, lm *LabelMap) (*Graph, *LabelMap) {
	t.Helper()
	b := NewBuilder(0, len(labels))
	for v, l := range labels {
		if err := b.AddVertex(Vertex(v), l); err != nil {
			t.Fatalf("add vertex %d: %v", v, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e.v1, e.v2, e.label); err != nil {
			t.Fatalf("add edge %d-%d: %v", e.v1, e.v2, err)
		}
	}
	g, m, err := b.Build(lm)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g, m
}

func TestBuildCSR(t *testing.T) {
	// raw labels 10 and 20 canonicalize to 0 and 1
	g, lm := buildGraph(t,
		[]Label{10, 20, 10, 20, 10},
		[]edge{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}, {0, 4, 0}, {1, 2, 0}, {2, 3, 0}},
		nil)

	if got := g.NumVertices(); got != 5 {
		t.Errorf("NumVertices = %d; want 5", got)
	}
	if got := g.NumEdges(); got != 6 {
		t.Errorf("NumEdges = %d; want 6", got)
	}
	if got := lm.Len(); got != 2 {
		t.Errorf("LabelMap.Len = %d; want 2", got)
	}
	if got := g.Label(0); got != 0 {
		t.Errorf("Label(0) = %d; want 0", got)
	}
	if got := g.Label(1); got != 1 {
		t.Errorf("Label(1) = %d; want 1", got)
	}
	wantDeg := []int{4, 2, 3, 2, 1}
	for v, want := range wantDeg {
		if got := g.Degree(Vertex(v)); got != want {
			t.Errorf("Degree(%d) = %d; want %d", v, got, want)
		}
	}
	if got := g.LabelFrequency(0); got != 3 {
		t.Errorf("LabelFrequency(0) = %d; want 3", got)
	}
	if got := g.LabelFrequency(1); got != 2 {
		t.Errorf("LabelFrequency(1) = %d; want 2", got)
	}
	if got := g.LabelFrequency(NoLabel); got != 0 {
		t.Errorf("LabelFrequency(-1) = %d; want 0", got)
	}
}

func TestNeighborOrdering(t *testing.T) {
	// Neighbors must sort by ascending label, then descending degree,
	// then ascending id.
	g, _ := buildGraph(t,
		[]Label{10, 20, 10, 20, 10},
		[]edge{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}, {0, 4, 0}, {1, 2, 0}, {2, 3, 0}},
		nil)

	// neighbors of 0: label-0 vertices {2 (deg 3), 4 (deg 1)}, then
	// label-1 vertices {1 (deg 2), 3 (deg 2)} tie broken by id.
	want := []Vertex{2, 4, 1, 3}
	if diff := cmp.Diff(want, g.Neighbors(0)); diff != "" {
		t.Errorf("Neighbors(0) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Vertex{2, 4}, g.NeighborsWithLabel(0, 0)); diff != "" {
		t.Errorf("NeighborsWithLabel(0,0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Vertex{1, 3}, g.NeighborsWithLabel(0, 1)); diff != "" {
		t.Errorf("NeighborsWithLabel(0,1) mismatch (-want +got):\n%s", diff)
	}
	if got := g.NeighborsWithLabel(4, 1); len(got) != 0 {
		t.Errorf("NeighborsWithLabel(4,1) = %v; want empty", got)
	}
	if got := g.NeighborsWithLabel(0, NoLabel); got != nil {
		t.Errorf("NeighborsWithLabel(0,-1) = %v; want nil", got)
	}
}

func TestIsNeighbor(t *testing.T) {
	g, _ := buildGraph(t,
		[]Label{10, 20, 10, 20, 10},
		[]edge{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}, {0, 4, 0}, {1, 2, 0}, {2, 3, 0}},
		nil)

	cases := []struct {
		u, v Vertex
		want bool
	}{
		{0, 1, true},
		{1, 0, true},
		{2, 3, true},
		{1, 3, false},
		{4, 2, false},
	}
	for _, c := range cases {
		if got := g.IsNeighbor(c.u, c.v); got != c.want {
			t.Errorf("IsNeighbor(%d,%d) = %v; want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestEdgeLabel(t *testing.T) {
	g, _ := buildGraph(t,
		[]Label{10, 20, 10},
		[]edge{{0, 1, 7}, {1, 2, 9}},
		nil)

	if l, ok := g.EdgeLabel(0, 1); !ok || l != 7 {
		t.Errorf("EdgeLabel(0,1) = %d,%v; want 7,true", l, ok)
	}
	if l, ok := g.EdgeLabel(2, 1); !ok || l != 9 {
		t.Errorf("EdgeLabel(2,1) = %d,%v; want 9,true", l, ok)
	}
	if _, ok := g.EdgeLabel(0, 2); ok {
		t.Error("EdgeLabel(0,2) reported an edge; want none")
	}
}

func TestLabelMapReuse(t *testing.T) {
	g, lm := buildGraph(t, []Label{10, 20}, []edge{{0, 1, 0}}, nil)

	// a query label absent from the data graph maps to the sentinel
	q, _ := buildGraph(t, []Label{20, 30}, []edge{{0, 1, 0}}, lm)
	if got := q.Label(0); got != g.Label(1) {
		t.Errorf("query Label(0) = %d; want %d", got, g.Label(1))
	}
	if got := q.Label(1); got != NoLabel {
		t.Errorf("query Label(1) = %d; want NoLabel", got)
	}
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(0, 2)
	if err := b.AddVertex(2, 0); !errors.Is(err, ErrVertexRange) {
		t.Errorf("out-of-range vertex: want ErrVertexRange, got %v", err)
	}
	if err := b.AddVertex(0, 1); err != nil {
		t.Fatalf("add vertex: %v", err)
	}
	if err := b.AddVertex(0, 1); !errors.Is(err, ErrVertexExists) {
		t.Errorf("duplicate vertex: want ErrVertexExists, got %v", err)
	}
	if err := b.AddEdge(0, 0, 0); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop: want ErrSelfLoop, got %v", err)
	}
	if _, _, err := b.Build(nil); !errors.Is(err, ErrVertexMissing) {
		t.Errorf("missing vertex record: want ErrVertexMissing, got %v", err)
	}
}

func TestDuplicateEdgesDeduplicated(t *testing.T) {
	b := NewBuilder(0, 2)
	_ = b.AddVertex(0, 1)
	_ = b.AddVertex(1, 1)
	if err := b.AddEdge(0, 1, 5); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := b.AddEdge(1, 0, 6); err != nil {
		t.Fatalf("re-add edge: %v", err)
	}
	g, _, err := b.Build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := g.NumEdges(); got != 1 {
		t.Errorf("NumEdges = %d; want 1", got)
	}
	// first label wins
	if l, ok := g.EdgeLabel(0, 1); !ok || l != 5 {
		t.Errorf("EdgeLabel(0,1) = %d,%v; want 5,true", l, ok)
	}
}
