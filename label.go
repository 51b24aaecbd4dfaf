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

import "sort"

// LabelMap remaps the raw labels of a data graph to consecutive
// canonical integers 0..K-1. The data-graph load produces the map and
// the query-graph load reuses it, so both graphs speak the same label
// space. A raw label unknown to the map canonicalizes to NoLabel.
type LabelMap struct {
	canonical []Label // indexed by raw label, NoLabel when unmapped
	count     int
}

// newLabelMap builds the canonical mapping from the set of raw labels.
// Labels are assigned in ascending raw order.
func newLabelMap(raw map[Label]struct{}) *LabelMap {
	if len(raw) == 0 {
		return &LabelMap{}
	}
	labels := make([]Label, 0, len(raw))
	for l := range raw {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	m := &LabelMap{
		canonical: make([]Label, labels[len(labels)-1]+1),
		count:     len(labels),
	}
	for i := range m.canonical {
		m.canonical[i] = NoLabel
	}
	for i, l := range labels {
		m.canonical[l] = Label(i)
	}
	return m
}

// Canonical returns the canonical form of raw label l.
func (m *LabelMap) Canonical(l Label) Label {
	if l < 0 || int(l) >= len(m.canonical) {
		return NoLabel
	}
	return m.canonical[l]
}

// Len returns the number of distinct canonical labels.
func (m *LabelMap) Len() int { return m.count }
