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
	"fmt"
	"io"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service exposes match jobs over HTTP:
//
//	GET    /jobs/            list jobs
//	POST   /jobs/            register a job (JSON or YAML JobSpec body)
//	GET    /jobs/:name       job status plus matches when finished
//	PATCH  /jobs/:name       ?action=run|stop
//	DELETE /jobs/:name       stop and remove a job
type Service struct {
	host string
	port int
	log  *zap.Logger

	mu      sync.RWMutex
	running bool
	jobs    map[string]*Job
	svc     *gin.Engine
}

func NewService(host string, port int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		host: host,
		port: port,
		log:  log,
		jobs: make(map[string]*Job),
	}
}

// Engine returns the configured router, building it on first use.
// Exposed so the service can sit behind an existing server and for
// handler tests.
func (s *Service) Engine() *gin.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		s.svc = gin.Default()
		s.router()
	}
	return s.svc
}

func (s *Service) Run() error {
	svc := s.Engine()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.log.Info("match service listening",
		zap.String("host", s.host), zap.Int("port", s.port))
	return svc.Run(fmt.Sprintf("%s:%d", s.host, s.port))
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		j.Stop()
	}
	s.running = false
	return nil
}

// Register adds a job under its name, replacing nothing.
func (s *Service) Register(j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.Name()]; ok {
		return errJobExists
	}
	s.jobs[j.Name()] = j
	return nil
}

func (s *Service) router() {
	jobs := s.svc.Group("/jobs")

	// list all jobs.
	jobs.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"jobs": s.listJobs(),
		})
	})

	// get job status, with matches once finished.
	jobs.GET("/:name", func(c *gin.Context) {
		j, err := s.getJob(c.Param("name"))
		if err != nil {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		info := j.Info()
		resp := gin.H{"job": info}
		if info.Status == Success || info.Status == Stopped {
			resp["matches"] = j.Matches()
		}
		c.JSON(200, resp)
	})

	// create a job from a JSON or YAML spec.
	jobs.POST("/", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		spec, err := UnmarshalJobSpec(body)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		j, err := NewJob(spec, s.log)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := s.Register(j); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, gin.H{"job": j.Info()})
	})

	// start/stop a job.
	jobs.PATCH("/:name", func(c *gin.Context) {
		j, err := s.getJob(c.Param("name"))
		if err != nil {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		switch action := c.Query("action"); action {
		case "run", "start":
			if err := j.Start(); err != nil {
				c.JSON(409, gin.H{"error": err.Error()})
				return
			}
		case "stop":
			j.Stop()
		default:
			c.JSON(400, gin.H{"error": fmt.Sprintf("not support action %s", action)})
			return
		}
		c.JSON(200, gin.H{"job": j.Info()})
	})

	// delete a job.
	jobs.DELETE("/:name", func(c *gin.Context) {
		if err := s.deleteJob(c.Param("name")); err != nil {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, gin.H{})
	})
}

func (s *Service) listJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		infos = append(infos, j.Info())
	}
	return infos
}

func (s *Service) getJob(name string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[name]
	if !ok {
		return nil, errJobNotExists
	}
	return j, nil
}

func (s *Service) deleteJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return errJobNotExists
	}
	j.Stop()
	delete(s.jobs, name)
	return nil
}
