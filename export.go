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
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// VertexInfo is the serialized form of one vertex record.
type VertexInfo struct {
	ID    int32 `json:"id" yaml:"id"`
	Label int32 `json:"label" yaml:"label"`
}

// EdgeInfo is the serialized form of one undirected edge record.
type EdgeInfo struct {
	V1    int32 `json:"v1" yaml:"v1"`
	V2    int32 `json:"v2" yaml:"v2"`
	Label int32 `json:"label" yaml:"label"`
}

// GraphInfo represents the basic information of a graph, used for
// serialization of graph objects in JSON or YAML.
type GraphInfo struct {
	ID       int32        `json:"id" yaml:"id"`
	Vertexes []VertexInfo `json:"vertexes" yaml:"vertexes"`
	Edges    []EdgeInfo   `json:"edges" yaml:"edges"`
}

// UnmarshalGraphInfo decodes a GraphInfo from JSON or YAML bytes.
func UnmarshalGraphInfo(s []byte) (GraphInfo, error) {
	var gi GraphInfo
	if json.Valid(s) {
		if err := json.Unmarshal(s, &gi); err != nil {
			return gi, err
		}
		return gi, nil
	}
	if err := yaml.Unmarshal(s, &gi); err != nil {
		return gi, err
	}
	return gi, nil
}

// Build assembles a Graph from the serialized records. Label mapping
// works as in Builder.Build: nil derives a fresh map, a data-graph map
// canonicalizes a query payload.
func (gi GraphInfo) Build(lm *LabelMap) (*Graph, *LabelMap, error) {
	b := NewBuilder(gi.ID, len(gi.Vertexes))
	for _, v := range gi.Vertexes {
		if err := b.AddVertex(v.ID, v.Label); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range gi.Edges {
		if err := b.AddEdge(e.V1, e.V2, e.Label); err != nil {
			return nil, nil, err
		}
	}
	return b.Build(lm)
}

// graphInfo snapshots a built graph. Vertex labels come out in their
// canonical form, not the raw file labels.
func graphInfo(g *Graph) GraphInfo {
	gi := GraphInfo{
		ID:       g.ID(),
		Vertexes: make([]VertexInfo, g.NumVertices()),
	}
	for v := 0; v < g.NumVertices(); v++ {
		gi.Vertexes[v] = VertexInfo{ID: int32(v), Label: g.Label(Vertex(v))}
		for i := g.offset[v]; i < g.offset[v+1]; i++ {
			if w := g.adj[i]; w > Vertex(v) {
				gi.Edges = append(gi.Edges, EdgeInfo{V1: int32(v), V2: w, Label: g.elab[i]})
			}
		}
	}
	return gi
}

// MarshalGraphToJSON serializes a graph in JSON format.
func MarshalGraphToJSON(g *Graph) ([]byte, error) {
	return json.Marshal(graphInfo(g))
}

// MarshalGraphToYaml serializes a graph in YAML format.
func MarshalGraphToYaml(g *Graph) ([]byte, error) {
	return yaml.Marshal(graphInfo(g))
}
