package trace

import (
	"sync"
	"time"
)

type Status string

const (
	StatusStarted Status = "started"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Entry records the outcome of one pipeline step.
type Entry struct {
	Step         string      `json:"step"`
	Status       Status      `json:"status"`
	StartedAtMs  int64       `json:"startedAtMs"`
	DurationMs   int64       `json:"durationMs,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

type Summary struct {
	TotalSteps int `json:"totalSteps"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Recorder is an append-only trace of one request's pipeline. Steps run on
// concurrent goroutines, so every mutation happens under the mutex; each
// span writes its slot exactly once on completion.
type Recorder struct {
	mu      sync.Mutex
	started time.Time
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{started: time.Now()}
}

// Span tracks one in-flight step until Success or Error finishes it.
type Span struct {
	r       *Recorder
	index   int
	started time.Time
}

func (r *Recorder) Start(step string) *Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.entries = append(r.entries, Entry{
		Step:        step,
		Status:      StatusStarted,
		StartedAtMs: now.UnixMilli(),
	})

	return &Span{r: r, index: len(r.entries) - 1, started: now}
}

func (s *Span) Success(data interface{}) {
	s.finish(StatusSuccess, "", data)
}

func (s *Span) Error(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.finish(StatusError, msg, nil)
}

func (s *Span) finish(status Status, errMsg string, data interface{}) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	entry := &s.r.entries[s.index]
	entry.Status = status
	entry.DurationMs = time.Since(s.started).Milliseconds()
	entry.ErrorMessage = errMsg
	entry.Data = data
}

// Skip records a step that never ran, with the reason in Data.
func (r *Recorder) Skip(step, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{
		Step:        step,
		Status:      StatusSkipped,
		StartedAtMs: time.Now().UnixMilli(),
		Data:        reason,
	})
}

// Entries returns a copy; the recorder keeps sole ownership of its slice.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := Summary{TotalSteps: len(r.entries)}
	for _, entry := range r.entries {
		switch entry.Status {
		case StatusSuccess:
			summary.Successful++
		case StatusError:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}
	}
	return summary
}

func (r *Recorder) TotalDurationMs() int64 {
	return time.Since(r.started).Milliseconds()
}
