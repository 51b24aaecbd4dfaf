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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadGraph loads a graph from the whitespace-separated text format:
//
//	t <graph_id> <num_vertices>
//	v <id> <label>
//	e <v1> <v2> <label>
//
// Pass lm == nil for the data graph: the label map is derived from its
// labels and returned. Pass the data graph's map for the query graph so
// both share one canonical label space.
func ReadGraph(path string, lm *LabelMap) (*Graph, *LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open graph file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		b    *Builder
		line int
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "t":
			if b != nil || len(fields) != 3 {
				return nil, nil, recordErr(path, line, ErrMalformedHeader, sc.Text())
			}
			id, err1 := parseInt32(fields[1])
			n, err2 := parseInt32(fields[2])
			if err1 != nil || err2 != nil || n < 0 {
				return nil, nil, recordErr(path, line, ErrMalformedHeader, sc.Text())
			}
			b = NewBuilder(id, int(n))
		case "v":
			if b == nil || len(fields) != 3 {
				return nil, nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
			}
			id, err1 := parseInt32(fields[1])
			l, err2 := parseInt32(fields[2])
			if err1 != nil || err2 != nil {
				return nil, nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
			}
			if err := b.AddVertex(id, l); err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		case "e":
			if b == nil || len(fields) != 4 {
				return nil, nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
			}
			v1, err1 := parseInt32(fields[1])
			v2, err2 := parseInt32(fields[2])
			l, err3 := parseInt32(fields[3])
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
			}
			if err := b.AddEdge(v1, v2, l); err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		default:
			return nil, nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read graph file %s: %w", path, err)
	}
	if b == nil {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrMalformedHeader)
	}
	return b.Build(lm)
}

// ReadCandidateSet loads the per-query-vertex candidate lists:
// a first line with |V(Q)|, then per query vertex in increasing id
// order one line `<u> <size> <c0> <c1> ...`.
func ReadCandidateSet(path string, query, data *Graph) (*CandidateSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidate file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		line int
		next Vertex
		cand [][]Vertex
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if cand == nil {
			n, err := parseInt32(fields[0])
			if err != nil || len(fields) != 1 {
				return nil, recordErr(path, line, ErrMalformedHeader, sc.Text())
			}
			if int(n) != query.NumVertices() {
				return nil, fmt.Errorf("%s:%d: %w: %d blocks for %d query vertices",
					path, line, ErrCandidateCount, n, query.NumVertices())
			}
			cand = make([][]Vertex, n)
			continue
		}
		if int(next) >= len(cand) {
			return nil, fmt.Errorf("%s:%d: %w: extra block", path, line, ErrCandidateCount)
		}
		if len(fields) < 2 {
			return nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
		}
		u, err1 := parseInt32(fields[0])
		size, err2 := parseInt32(fields[1])
		if err1 != nil || err2 != nil || u != next || int(size) != len(fields)-2 {
			return nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
		}
		vs := make([]Vertex, 0, size)
		for _, fd := range fields[2:] {
			v, err := parseInt32(fd)
			if err != nil {
				return nil, recordErr(path, line, ErrMalformedRecord, sc.Text())
			}
			if v < 0 || int(v) >= data.NumVertices() {
				return nil, fmt.Errorf("%s:%d: %w: %d", path, line, ErrCandidateVertex, v)
			}
			vs = append(vs, v)
		}
		cand[next] = vs
		next++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read candidate file %s: %w", path, err)
	}
	if cand == nil || int(next) != len(cand) {
		return nil, fmt.Errorf("%s: %w", path, ErrCandidateCount)
	}
	return NewCandidateSet(cand), nil
}

func recordErr(path string, line int, kind error, text string) error {
	return fmt.Errorf("%s:%d: %w: %q", path, line, kind, strings.TrimSpace(text))
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	return int32(n), err
}
