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
	"fmt"
	"sort"
)

type neighborRec struct {
	to    Vertex
	label Label // edge label, kept raw
}

// Builder accumulates vertex and edge records and assembles the CSR
// arrays in one pass. Duplicate undirected edges are silently
// deduplicated (first label wins); self loops are rejected.
type Builder struct {
	id       int32
	n        int
	rawLabel []Label
	defined  []bool
	adjList  [][]neighborRec
	edges    map[uint64]struct{}
	numEdges int
}

// NewBuilder starts a graph of n vertices with the given graph id.
func NewBuilder(id int32, n int) *Builder {
	return &Builder{
		id:       id,
		n:        n,
		rawLabel: make([]Label, n),
		defined:  make([]bool, n),
		adjList:  make([][]neighborRec, n),
		edges:    make(map[uint64]struct{}, n),
	}
}

// AddVertex records vertex v with its raw label.
func (b *Builder) AddVertex(v Vertex, l Label) error {
	if v < 0 || int(v) >= b.n {
		return fmt.Errorf("%w: vertex %d of %d", ErrVertexRange, v, b.n)
	}
	if b.defined[v] {
		return fmt.Errorf("%w: vertex %d", ErrVertexExists, v)
	}
	b.defined[v] = true
	b.rawLabel[v] = l
	return nil
}

// AddEdge records the undirected edge {v1,v2} with its edge label.
func (b *Builder) AddEdge(v1, v2 Vertex, l Label) error {
	if v1 < 0 || int(v1) >= b.n || v2 < 0 || int(v2) >= b.n {
		return fmt.Errorf("%w: edge %d-%d of %d", ErrVertexRange, v1, v2, b.n)
	}
	if v1 == v2 {
		return fmt.Errorf("%w: vertex %d", ErrSelfLoop, v1)
	}
	lo, hi := v1, v2
	if lo > hi {
		lo, hi = hi, lo
	}
	key := uint64(uint32(lo))<<32 | uint64(uint32(hi))
	if _, ok := b.edges[key]; ok {
		return nil
	}
	b.edges[key] = struct{}{}
	b.adjList[v1] = append(b.adjList[v1], neighborRec{to: v2, label: l})
	b.adjList[v2] = append(b.adjList[v2], neighborRec{to: v1, label: l})
	b.numEdges++
	return nil
}

// Build assembles the graph. When lm is nil a fresh LabelMap is derived
// from this graph's raw labels (the data-graph load); otherwise labels
// canonicalize through the given map and unknown ones become NoLabel
// (the query-graph load). The returned map is lm or the derived one.
func (b *Builder) Build(lm *LabelMap) (*Graph, *LabelMap, error) {
	if b.n == 0 {
		return nil, nil, ErrEmptyGraph
	}
	for v := 0; v < b.n; v++ {
		if !b.defined[v] {
			return nil, nil, fmt.Errorf("%w: vertex %d", ErrVertexMissing, v)
		}
	}

	if lm == nil {
		raw := make(map[Label]struct{}, b.n)
		for _, l := range b.rawLabel {
			raw[l] = struct{}{}
		}
		lm = newLabelMap(raw)
	}

	g := &Graph{
		id:          b.id,
		numVertices: b.n,
		numEdges:    b.numEdges,
		label:       make([]Label, b.n),
		offset:      make([]int32, b.n+1),
		adj:         make([]Vertex, 2*b.numEdges),
		elab:        make([]Label, 2*b.numEdges),
	}

	labelSet := make(map[Label]struct{}, lm.Len())
	for v := 0; v < b.n; v++ {
		l := lm.Canonical(b.rawLabel[v])
		g.label[v] = l
		labelSet[l] = struct{}{}
	}
	g.numLabels = len(labelSet)
	g.maxLabel = NoLabel
	for l := range labelSet {
		if l > g.maxLabel {
			g.maxLabel = l
		}
	}

	deg := func(v Vertex) int { return len(b.adjList[v]) }
	for v := 0; v < b.n; v++ {
		g.offset[v+1] = g.offset[v] + int32(deg(Vertex(v)))
	}

	width := int(g.maxLabel + 1)
	g.bucket = make([]labelRange, b.n*width)
	g.frequency = make([]int, width)
	for v := 0; v < b.n; v++ {
		if l := g.label[v]; l >= 0 {
			g.frequency[l]++
		}
	}

	for v := 0; v < b.n; v++ {
		ns := b.adjList[v]
		// sort neighbors by ascending label first, descending degree
		// second, ascending id last, so per-label buckets are contiguous
		sort.Slice(ns, func(i, j int) bool {
			li, lj := g.label[ns[i].to], g.label[ns[j].to]
			if li != lj {
				return li < lj
			}
			di, dj := deg(ns[i].to), deg(ns[j].to)
			if di != dj {
				return di > dj
			}
			return ns[i].to < ns[j].to
		})

		base := g.offset[v]
		for i, nb := range ns {
			g.adj[base+int32(i)] = nb.to
			g.elab[base+int32(i)] = nb.label
		}
		if len(ns) == 0 {
			continue
		}

		row := v * width
		l := g.label[ns[0].to]
		if l >= 0 {
			g.bucket[row+int(l)].begin = base
		}
		for i := 1; i < len(ns); i++ {
			next := g.label[ns[i].to]
			if next != l {
				if l >= 0 {
					g.bucket[row+int(l)].end = base + int32(i)
				}
				if next >= 0 {
					g.bucket[row+int(next)].begin = base + int32(i)
				}
				l = next
			}
		}
		if l >= 0 {
			g.bucket[row+int(l)].end = g.offset[v+1]
		}
	}

	return g, lm, nil
}
