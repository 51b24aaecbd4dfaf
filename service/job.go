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

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flxj/gmatch"
)

type State string

const (
	Waiting State = "waiting"
	Running State = "running"
	Success State = "success"
	Failed  State = "failed"
	Stopped State = "stopped"
)

var (
	errJobNotExists = errors.New("job not exists")
	errJobExists    = errors.New("job already exists")
	errJobRunning   = errors.New("job is already running")
	errJobNoName    = errors.New("job name is empty")
	errJobInputs    = errors.New("job needs file paths or inline graphs")
	errJobStopped   = errors.New("job stopped")
)

// JobSpec describes one match run. Inputs come either as paths to the
// text files or as inline serialized graphs plus candidate lists.
type JobSpec struct {
	Name string `json:"name" yaml:"name"`

	DataPath       string `json:"data_path,omitempty" yaml:"data_path,omitempty"`
	QueryPath      string `json:"query_path,omitempty" yaml:"query_path,omitempty"`
	CandidatesPath string `json:"candidates_path,omitempty" yaml:"candidates_path,omitempty"`

	Data       *gmatch.GraphInfo `json:"data,omitempty" yaml:"data,omitempty"`
	Query      *gmatch.GraphInfo `json:"query,omitempty" yaml:"query,omitempty"`
	Candidates [][]int32         `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	EdgeLabelCheck bool `json:"edge_label_check,omitempty" yaml:"edge_label_check,omitempty"`
}

// UnmarshalJobSpec decodes a JobSpec from JSON or YAML bytes.
func UnmarshalJobSpec(s []byte) (JobSpec, error) {
	var spec JobSpec
	if json.Valid(s) {
		if err := json.Unmarshal(s, &spec); err != nil {
			return spec, err
		}
		return spec, nil
	}
	if err := yaml.Unmarshal(s, &spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func (spec JobSpec) inline() bool {
	return spec.Data != nil || spec.Query != nil || spec.Candidates != nil
}

func (spec JobSpec) validate() error {
	if spec.Name == "" {
		return errJobNoName
	}
	if spec.inline() {
		if spec.Data == nil || spec.Query == nil || spec.Candidates == nil {
			return errJobInputs
		}
		return nil
	}
	if spec.DataPath == "" || spec.QueryPath == "" || spec.CandidatesPath == "" {
		return errJobInputs
	}
	return nil
}

// JobInfo is the externally visible status of a job.
type JobInfo struct {
	Name       string `json:"name"`
	Status     State  `json:"status"`
	Err        string `json:"err,omitempty"`
	StartAt    string `json:"start_at,omitempty"`
	EndAt      string `json:"end_at,omitempty"`
	NumMatches int    `json:"num_matches"`
}

// Job is one registered match run. A job runs at most once at a time;
// its result stays available until the job is started again or deleted.
type Job struct {
	spec JobSpec
	log  *zap.Logger

	mu      sync.RWMutex
	status  State
	err     string
	startAt time.Time
	endAt   time.Time
	matches [][]gmatch.Vertex

	stop atomic.Bool
}

// NewJob validates the spec and registers nothing yet.
func NewJob(spec JobSpec, log *zap.Logger) (*Job, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{
		spec:   spec,
		log:    log,
		status: Waiting,
	}, nil
}

func (j *Job) Name() string { return j.spec.Name }

// Start launches the search in the background. A running job refuses
// a second start.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status == Running {
		return errJobRunning
	}
	j.status = Running
	j.err = ""
	j.startAt = time.Now()
	j.endAt = time.Time{}
	j.matches = nil
	j.stop.Store(false)

	go j.run()
	return nil
}

// Stop requests a running search to end early. The search stops at the
// next emitted match; already collected matches stay available.
func (j *Job) Stop() {
	j.stop.Store(true)
}

func (j *Job) run() {
	j.log.Info("match job started", zap.String("job", j.spec.Name))

	matches, err := j.search()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.endAt = time.Now()
	j.matches = matches
	switch {
	case errors.Is(err, errJobStopped):
		j.status = Stopped
	case err != nil:
		j.status = Failed
		j.err = err.Error()
		j.log.Error("match job failed", zap.String("job", j.spec.Name), zap.Error(err))
	default:
		j.status = Success
		j.log.Info("match job done",
			zap.String("job", j.spec.Name),
			zap.Int("matches", len(matches)),
			zap.Duration("elapsed", j.endAt.Sub(j.startAt)))
	}
}

func (j *Job) search() ([][]gmatch.Vertex, error) {
	data, query, cs, err := j.loadInputs()
	if err != nil {
		return nil, err
	}
	dag, err := gmatch.BuildQueryDAG(query, data)
	if err != nil {
		return nil, err
	}

	var opts []gmatch.MatchOption
	if j.spec.EdgeLabelCheck {
		opts = append(opts, gmatch.WithEdgeLabelCheck())
	}

	var out [][]gmatch.Vertex
	err = gmatch.EnumerateMatches(data, query, dag, cs, func(image []gmatch.Vertex) error {
		if j.stop.Load() {
			return errJobStopped
		}
		out = append(out, append([]gmatch.Vertex(nil), image...))
		return nil
	}, opts...)
	if err != nil && !errors.Is(err, errJobStopped) {
		return nil, err
	}
	return out, err
}

func (j *Job) loadInputs() (data, query *gmatch.Graph, cs *gmatch.CandidateSet, err error) {
	if j.spec.inline() {
		data, lm, err := j.spec.Data.Build(nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("build data graph: %w", err)
		}
		query, _, err := j.spec.Query.Build(lm)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("build query graph: %w", err)
		}
		if len(j.spec.Candidates) != query.NumVertices() {
			return nil, nil, nil, fmt.Errorf("%d candidate blocks for %d query vertices", len(j.spec.Candidates), query.NumVertices())
		}
		for u, vs := range j.spec.Candidates {
			for _, v := range vs {
				if v < 0 || int(v) >= data.NumVertices() {
					return nil, nil, nil, fmt.Errorf("candidate %d of query vertex %d out of range", v, u)
				}
			}
		}
		return data, query, gmatch.NewCandidateSet(j.spec.Candidates), nil
	}
	return gmatch.LoadFiles(j.spec.DataPath, j.spec.QueryPath, j.spec.CandidatesPath)
}

// Info snapshots the job status.
func (j *Job) Info() JobInfo {
	j.mu.RLock()
	defer j.mu.RUnlock()

	info := JobInfo{
		Name:       j.spec.Name,
		Status:     j.status,
		Err:        j.err,
		NumMatches: len(j.matches),
	}
	if !j.startAt.IsZero() {
		info.StartAt = j.startAt.Format(time.RFC3339)
	}
	if !j.endAt.IsZero() {
		info.EndAt = j.endAt.Format(time.RFC3339)
	}
	return info
}

// Matches returns the collected embeddings of the last run.
func (j *Job) Matches() [][]gmatch.Vertex {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.matches
}

func (j *Job) Status() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}
