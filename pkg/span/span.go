package span

import (
	"sync"

	"github.com/opentracing/opentracing-go"
)

// Span carries the tracing context of a batch fit run down through its
// subjects and models. All spans of one run are children, directly or
// indirectly, of the run span, so a whole batch shows up as a single trace.
type Span struct {
	runID      string
	subjectID  string
	modelName  string
	parent     opentracing.SpanContext
	sp         opentracing.Span
	startOnce  *sync.Once
	finishOnce *sync.Once
}

// NewRunSpan returns the root span of one batch fit run.
func NewRunSpan(runID string) *Span {
	return &Span{
		runID:      runID,
		startOnce:  &sync.Once{},
		finishOnce: &sync.Once{},
	}
}

// NewSubjectSpan returns a child span for fitting one subject.
func (s *Span) NewSubjectSpan(subjectID string) *Span {
	return &Span{
		runID:      s.runID,
		subjectID:  subjectID,
		parent:     s.context(),
		startOnce:  &sync.Once{},
		finishOnce: &sync.Once{},
	}
}

// NewModelSpan returns a child span for fitting one model of one subject.
func (s *Span) NewModelSpan(modelName string) *Span {
	return &Span{
		runID:      s.runID,
		subjectID:  s.subjectID,
		modelName:  modelName,
		parent:     s.context(),
		startOnce:  &sync.Once{},
		finishOnce: &sync.Once{},
	}
}

func (s *Span) context() opentracing.SpanContext {
	if s.sp == nil {
		return nil
	}
	return s.sp.Context()
}

// Start starts the span. Repeated calls are no-ops.
func (s *Span) Start(name string) {
	s.startOnce.Do(func() {
		if s.parent == nil {
			s.sp = opentracing.StartSpan(name)
		} else {
			s.sp = opentracing.StartSpan(name, opentracing.ChildOf(s.parent))
		}
		s.sp.SetTag("runId", s.runID)
		if s.subjectID != "" {
			s.sp.SetTag("subjectId", s.subjectID)
		}
		if s.modelName != "" {
			s.sp.SetTag("model", s.modelName)
		}
	})
}

// Finish finishes the span. Repeated calls are no-ops.
func (s *Span) Finish() {
	if s.sp == nil {
		return
	}
	s.finishOnce.Do(func() {
		s.sp.Finish()
	})
}
