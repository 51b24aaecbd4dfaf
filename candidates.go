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

// CandidateSet holds, per query vertex, the precomputed data vertices
// that pass the necessary label and degree conditions. It is immutable
// once built. The matcher tries the root's candidates in stored order
// and reorders the candidates of every other query vertex itself.
type CandidateSet struct {
	cand [][]Vertex
}

// NewCandidateSet wraps per-query-vertex candidate lists.
// The slice is indexed by query vertex id.
func NewCandidateSet(cand [][]Vertex) *CandidateSet {
	return &CandidateSet{cand: cand}
}

// Size returns the number of candidates of query vertex u.
func (c *CandidateSet) Size(u Vertex) int {
	return len(c.cand[u])
}

// Get returns the i-th candidate of query vertex u.
func (c *CandidateSet) Get(u Vertex, i int) Vertex {
	return c.cand[u][i]
}
