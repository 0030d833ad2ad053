package store

import (
	"context"
	"sync"
	"time"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Memory is an in-process Store. Records expire after the configured TTL;
// a zero TTL keeps them until the process exits
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	resumes map[string]entry[types.Resume]
	jds     map[string]entry[types.JobDescription]
	jobs    map[string]entry[types.Job]
}

// NewMemory returns an empty in-memory store
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		resumes: make(map[string]entry[types.Resume]),
		jds:     make(map[string]entry[types.JobDescription]),
		jobs:    make(map[string]entry[types.Job]),
	}
}

func (m *Memory) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func (m *Memory) SaveResume(_ context.Context, r *types.Resume) error {
	cp := *r
	if r.Sections != nil {
		cp.Sections = r.Sections.Clone()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[r.ID] = entry[types.Resume]{value: cp, expires: m.expiry()}
	return nil
}

func (m *Memory) GetResume(_ context.Context, id string) (*types.Resume, error) {
	m.mu.RLock()
	e, ok := m.resumes[id]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return nil, notFound("resume", id)
	}
	r := e.value
	if r.Sections != nil {
		r.Sections = r.Sections.Clone()
	}
	return &r, nil
}

func (m *Memory) SaveJobDescription(_ context.Context, jd *types.JobDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jds[jd.ID] = entry[types.JobDescription]{value: *jd, expires: m.expiry()}
	return nil
}

func (m *Memory) GetJobDescription(_ context.Context, id string) (*types.JobDescription, error) {
	m.mu.RLock()
	e, ok := m.jds[id]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return nil, notFound("job description", id)
	}
	jd := e.value
	return &jd, nil
}

func (m *Memory) SaveJob(_ context.Context, job *types.Job) error {
	touch(job)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = entry[types.Job]{value: *job, expires: m.expiry()}
	return nil
}

func (m *Memory) GetJob(_ context.Context, id string) (*types.Job, error) {
	m.mu.RLock()
	e, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return nil, notFound("job", id)
	}
	job := e.value
	return &job, nil
}

func (m *Memory) UpdateJob(_ context.Context, id string, fn func(*types.Job)) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.jobs[id]
	if !ok || e.expired(m.now()) {
		return nil, notFound("job", id)
	}
	job := e.value
	fn(&job)
	touch(&job)
	m.jobs[id] = entry[types.Job]{value: job, expires: m.expiry()}
	out := job
	return &out, nil
}

// Len returns the number of live records of each kind
func (m *Memory) Len() (resumes, jds, jobs int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	for _, e := range m.resumes {
		if !e.expired(now) {
			resumes++
		}
	}
	for _, e := range m.jds {
		if !e.expired(now) {
			jds++
		}
	}
	for _, e := range m.jobs {
		if !e.expired(now) {
			jobs++
		}
	}
	return resumes, jds, jobs
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
