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
)

var (
	ErrVertexRange       = errors.New("vertex id out of range")
	ErrVertexExists      = errors.New("vertex already defined")
	ErrVertexMissing     = errors.New("vertex has no record")
	ErrSelfLoop          = errors.New("self loop edge")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrMalformedHeader   = errors.New("malformed graph header")
	ErrCandidateVertex   = errors.New("candidate vertex out of range")
	ErrCandidateCount    = errors.New("candidate block count mismatch")
	ErrEmptyGraph        = errors.New("graph has no vertices")
	ErrDisconnectedQuery = errors.New("query graph is not connected")
)
