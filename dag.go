package gmatch

import (
	"math"
	"sort"
)

// QueryDAG is the directed overlay built once on a query graph: every
// undirected query edge receives exactly one direction, pointing from
// lower BFS level to higher (within a level, from earlier-processed to
// later-processed). The root has no parents and reaches every vertex.
// The overlay owns its jagged parent/child slices.
type QueryDAG struct {
	Root Vertex

	parents  [][]Vertex
	children [][]Vertex
}

func (d *QueryDAG) Parents(u Vertex) []Vertex { return d.parents[u] }

func (d *QueryDAG) Children(u Vertex) []Vertex { return d.children[u] }

func (d *QueryDAG) NumParents(u Vertex) int { return len(d.parents[u]) }

func (d *QueryDAG) NumChildren(u Vertex) int { return len(d.children[u]) }

// initialCandidateCount counts the data vertices that could host query
// vertex u at all: matching label and degree no smaller than u's.
func initialCandidateCount(query, data *Graph, u Vertex) int {
	count := 0
	l := query.Label(u)
	deg := query.Degree(u)
	for v := 0; v < data.NumVertices(); v++ {
		if data.Label(Vertex(v)) == l && data.Degree(Vertex(v)) >= deg {
			count++
		}
	}
	return count
}

// findRoot picks the query vertex minimizing the ratio of initial
// candidate count to query degree: the most selective start per unit of
// branching. Ties fall to the smallest id. A single-vertex query roots
// at vertex 0.
func findRoot(query, data *Graph) Vertex {
	root := Vertex(0)
	best := math.Inf(1)
	for u := 0; u < query.NumVertices(); u++ {
		deg := query.Degree(Vertex(u))
		if deg == 0 {
			continue
		}
		r := float64(initialCandidateCount(query, data, Vertex(u))) / float64(deg)
		if r < best {
			best = r
			root = Vertex(u)
		}
	}
	return root
}

// BuildQueryDAG roots the query graph and orients its edges via a
// layered BFS. Each frontier is reordered by two successive stable
// sorts before its vertices are finalized:
//
//  1. by descending initial candidate count in the data graph;
//  2. by ascending frequency of the vertex label in the data graph.
//
// The second sort dominates (rarer labels first); the first breaks its
// ties. When a vertex is finalized, every incident edge towards a
// not-yet-finalized neighbor is directed away from it.
//
// Returns ErrDisconnectedQuery when the BFS does not cover the whole
// query graph.
func BuildQueryDAG(query, data *Graph) (*QueryDAG, error) {
	n := query.NumVertices()
	d := &QueryDAG{
		parents:  make([][]Vertex, n),
		children: make([][]Vertex, n),
	}
	d.Root = findRoot(query, data)

	visited := make([]bool, n)
	popped := make([]bool, n)
	frontier := []Vertex{d.Root}
	visited[d.Root] = true
	finalized := 0

	for len(frontier) > 0 {
		sort.SliceStable(frontier, func(i, j int) bool {
			return initialCandidateCount(query, data, frontier[i]) >
				initialCandidateCount(query, data, frontier[j])
		})
		sort.SliceStable(frontier, func(i, j int) bool {
			return data.LabelFrequency(query.Label(frontier[i])) <
				data.LabelFrequency(query.Label(frontier[j]))
		})

		var next []Vertex
		for _, c := range frontier {
			popped[c] = true
			finalized++
			for _, nb := range query.Neighbors(c) {
				if !popped[nb] {
					d.children[c] = append(d.children[c], nb)
					d.parents[nb] = append(d.parents[nb], c)
				}
				if !visited[nb] {
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}

	if finalized != n {
		return nil, ErrDisconnectedQuery
	}
	return d, nil
}
