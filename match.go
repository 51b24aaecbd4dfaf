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
	"io"
)

// LoadFiles reads the three matcher inputs from their text files.
// The data graph defines the canonical label space; the query graph is
// loaded through the same map.
func LoadFiles(dataPath, queryPath, candPath string) (data, query *Graph, cs *CandidateSet, err error) {
	data, lm, err := ReadGraph(dataPath, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	query, _, err = ReadGraph(queryPath, lm)
	if err != nil {
		return nil, nil, nil, err
	}
	cs, err = ReadCandidateSet(candPath, query, data)
	if err != nil {
		return nil, nil, nil, err
	}
	return data, query, cs, nil
}

// Run is the batch entrypoint: load the inputs, build the query DAG
// and stream every embedding to w in the text output format.
func Run(w io.Writer, dataPath, queryPath, candPath string, opts ...MatchOption) error {
	data, query, cs, err := LoadFiles(dataPath, queryPath, candPath)
	if err != nil {
		return err
	}
	dag, err := BuildQueryDAG(query, data)
	if err != nil {
		return err
	}
	return PrintAllMatches(w, data, query, dag, cs, opts...)
}
