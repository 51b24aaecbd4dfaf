package gmatch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// MatchOption adjusts matcher behavior.
type MatchOption func(*matcher)

// WithEdgeLabelCheck makes the matcher reject an embedding step when
// the data edge label differs from the query edge label. The default
// is permissive: edge labels are carried but ignored.
func WithEdgeLabelCheck() MatchOption {
	return func(m *matcher) {
		m.strictEdgeLabels = true
	}
}

// rank orders queue entries by priority first and vertex id second, so
// every pop order is deterministic.
type rank struct {
	prio int
	id   Vertex
}

func rankLess(a, b rank) bool {
	if a.prio != b.prio {
		return a.prio < b.prio
	}
	return a.id < b.id
}

// matcher holds the per-search state: the partial embedding (as the
// query->data image array) and the data-side visited bitmap. Graphs,
// DAG and candidate set are borrowed and never mutated.
type matcher struct {
	data  *Graph
	query *Graph
	dag   *QueryDAG
	cs    *CandidateSet

	strictEdgeLabels bool

	image   []Vertex // query vertex -> data vertex, noVertex when unmapped
	visited []bool   // data vertex already used by the embedding
	depth   int
	emit    func(image []Vertex) error
}

const noVertex Vertex = -1

func newMatcher(data, query *Graph, dag *QueryDAG, cs *CandidateSet, emit func([]Vertex) error, opts ...MatchOption) *matcher {
	m := &matcher{
		data:    data,
		query:   query,
		dag:     dag,
		cs:      cs,
		image:   make([]Vertex, query.NumVertices()),
		visited: make([]bool, data.NumVertices()),
		emit:    emit,
	}
	for i := range m.image {
		m.image[i] = noVertex
	}
	for _, op := range opts {
		op(m)
	}
	return m
}

// EnumerateMatches runs the backtracking search and calls emit once
// per complete embedding, passing the image array indexed by query
// vertex id. The array is reused between calls; emit must copy it to
// retain it. A non-nil error from emit aborts the search and is
// returned unchanged.
func EnumerateMatches(data, query *Graph, dag *QueryDAG, cs *CandidateSet, emit func([]Vertex) error, opts ...MatchOption) error {
	return newMatcher(data, query, dag, cs, emit, opts...).search()
}

// Matches collects every embedding of the query into the data graph.
func Matches(data, query *Graph, dag *QueryDAG, cs *CandidateSet, opts ...MatchOption) ([][]Vertex, error) {
	var out [][]Vertex
	err := EnumerateMatches(data, query, dag, cs, func(image []Vertex) error {
		out = append(out, append([]Vertex(nil), image...))
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PrintAllMatches streams the search results to w in the challenge
// text format: a header line `t <|V(Q)|>`, then one line
// `a <f(0)> ... <f(n-1)>` per embedding. Each line is written whole.
func PrintAllMatches(w io.Writer, data, query *Graph, dag *QueryDAG, cs *CandidateSet, opts ...MatchOption) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "t %d\n", query.NumVertices()); err != nil {
		return err
	}

	line := make([]byte, 0, 2+8*query.NumVertices())
	err := EnumerateMatches(data, query, dag, cs, func(image []Vertex) error {
		line = append(line[:0], 'a')
		for _, v := range image {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(v), 10)
		}
		line = append(line, '\n')
		_, werr := bw.Write(line)
		return werr
	}, opts...)
	if err != nil {
		return err
	}
	return bw.Flush()
}

// search extends the partial embedding by one (vertex, candidate)
// pair per frame and unwinds its own binding before returning.
func (m *matcher) search() error {
	if m.depth == m.query.NumVertices() {
		return m.emit(m.image)
	}

	if m.depth == 0 {
		root := m.dag.Root
		for i := 0; i < m.cs.Size(root); i++ {
			v := m.cs.Get(root, i)
			m.bind(root, v)
			if err := m.search(); err != nil {
				return err
			}
			m.unbind(root, v)
		}
		return nil
	}

	u, ok := m.extendableVertex()
	if !ok {
		return nil
	}
	cm := m.extendableCandidates(u)
	for {
		v, ok := cm.Pop()
		if !ok {
			break
		}
		if m.visited[v] {
			continue
		}
		m.bind(u, v)
		if err := m.search(); err != nil {
			return err
		}
		m.unbind(u, v)
	}
	return nil
}

func (m *matcher) bind(u Vertex, v Vertex) {
	m.image[u] = v
	m.visited[v] = true
	m.depth++
}

func (m *matcher) unbind(u Vertex, v Vertex) {
	m.image[u] = noVertex
	m.visited[v] = false
	m.depth--
}

// extendableVertex picks the unmapped query vertex whose DAG parents
// are all mapped, minimizing candidate count; ties fall to the
// smallest id. Reports false when no vertex is extendable.
func (m *matcher) extendableVertex() (Vertex, bool) {
	ext := newPriorityQueue[Vertex, rank](rankLess)
	for u := 0; u < m.query.NumVertices(); u++ {
		if m.image[u] != noVertex {
			continue
		}
		ready := true
		for _, p := range m.dag.Parents(Vertex(u)) {
			if m.image[p] == noVertex {
				ready = false
				break
			}
		}
		if ready {
			ext.Push(Vertex(u), rank{prio: m.cs.Size(Vertex(u)), id: Vertex(u)})
		}
	}
	return ext.Pop()
}

// extendableCandidates queues the candidates of u that are unused and
// adjacent in the data graph to the image of every DAG parent of u.
// The queue pops by ascending data degree, ties by id: low-degree
// candidates are less likely to satisfy later parent constraints, so
// probing them first prunes sooner.
func (m *matcher) extendableCandidates(u Vertex) *priorityQueue[Vertex, rank] {
	cm := newPriorityQueue[Vertex, rank](rankLess)
	parents := m.dag.Parents(u)

outer:
	for i := 0; i < m.cs.Size(u); i++ {
		w := m.cs.Get(u, i)
		if m.visited[w] {
			continue
		}
		for _, p := range parents {
			vp := m.image[p]
			el, ok := m.data.EdgeLabel(vp, w)
			if !ok {
				continue outer
			}
			if m.strictEdgeLabels {
				if ql, _ := m.query.EdgeLabel(p, u); el != ql {
					continue outer
				}
			}
		}
		cm.Push(w, rank{prio: m.data.Degree(w), id: w})
	}
	return cm
}
