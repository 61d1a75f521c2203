package filter

import (
	"errors"
	"fmt"
	"time"
)

// Stage is one named step of a Pipeline.
type Stage struct {
	Name   string
	Filter Filter
}

// StageObserver is notified after every stage, successful or not.
type StageObserver func(name string, elapsed time.Duration, out *Frame, err error)

// Pipeline applies its stages in order, each consuming the previous output.
type Pipeline struct {
	Stages  []Stage
	Observe StageObserver
}

// NewPipeline creates a pipeline from the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{Stages: stages}
}

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(name string, f Filter) *Pipeline {
	p.Stages = append(p.Stages, Stage{Name: name, Filter: f})
	return p
}

// Process runs every stage. With no stages it returns a copy of src.
func (p *Pipeline) Process(src Image, opts *Options) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	if len(p.Stages) == 0 {
		return copyFrame(src), nil
	}
	cur := src
	var out *Frame
	for i, s := range p.Stages {
		start := time.Now()
		res, err := s.Filter.Process(cur, opts)
		if p.Observe != nil {
			p.Observe(s.Name, time.Since(start), res, err)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, s.Name, err)
		}
		out = res
		cur = res
	}
	return out, nil
}

// Tolerant wraps a filter so that per-call numeric degeneracies
// (ErrDegenerateRange, ErrDivideByZero) echo the input unchanged instead of
// failing. OnRecover, if set, receives the swallowed error.
type Tolerant struct {
	Filter    Filter
	OnRecover func(err error)
}

func (t Tolerant) Process(src Image, opts *Options) (*Frame, error) {
	out, err := t.Filter.Process(src, opts)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, ErrDegenerateRange) || errors.Is(err, ErrDivideByZero) {
		if t.OnRecover != nil {
			t.OnRecover(err)
		}
		return copyFrame(src), nil
	}
	return nil, err
}
