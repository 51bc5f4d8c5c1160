// Package session holds the state of one editing session: the uploaded original, the
// latest enhanced result, the active mode and color grade.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/util/log"
	"github.com/google/uuid"
)

// Status is the processing state.
type Status string

// Statuses.
const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

var (
	// ErrNoSource is returned when enhancing without an uploaded image.
	ErrNoSource = errors.New("no source image")
	// ErrBusy is returned when an enhancement is already running.
	ErrBusy = errors.New("enhancement already in progress")
	// ErrNothingToExport is returned when exporting before a successful enhancement.
	ErrNothingToExport = errors.New("no enhanced image to export")
	// ErrSuperseded is returned by Enhance when the source changed while it ran.
	ErrSuperseded = errors.New("source image changed during enhancement")
)

// State is a snapshot of the session.
type State struct {
	Status    Status
	Message   string
	Mode      enhance.Mode
	Filter    string
	JobID     string
	Original  *imageio.Picture
	Processed *imageio.Picture
}

// HasOriginal reports whether an image has been uploaded.
func (s State) HasOriginal() bool { return s.Original != nil }

// HasProcessed reports whether an enhanced result is available.
func (s State) HasProcessed() bool { return s.Processed != nil }

// Session serializes all state changes and notifies listeners with snapshots.
type Session struct {
	enhancer enhance.Enhancer
	prompts  enhance.Prompts
	filters  *grade.Catalog

	mu        sync.Mutex
	state     State
	gen       uint64
	cancel    context.CancelFunc
	listeners map[int]func(State)
	nextID    int

	pending    []notification
	delivering bool
}

type notification struct {
	state     State
	listeners []func(State)
}

// New creates an empty session.
func New(enhancer enhance.Enhancer, prompts enhance.Prompts, filters *grade.Catalog) *Session {
	return &Session{
		enhancer:  enhancer,
		prompts:   prompts,
		filters:   filters,
		state:     emptyState(),
		listeners: make(map[int]func(State)),
	}
}

func emptyState() State {
	return State{Status: StatusIdle, Mode: enhance.ModeStrict, Filter: grade.NoneID}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Model returns the name of the model results come from, or "" if the enhancer does not
// report one.
func (s *Session) Model() string {
	return enhance.ModelOf(s.enhancer)
}

// Filters returns the grade catalog.
func (s *Session) Filters() *grade.Catalog {
	return s.filters
}

// Prompts returns the prompt templates.
func (s *Session) Prompts() enhance.Prompts {
	return s.prompts
}

// OnChange registers fn for every state change and returns a function removing it.
// Snapshots arrive in commit order. fn usually runs on the goroutine that made the
// change; a change committed while another is being delivered is passed on by the
// delivering goroutine.
func (s *Session) OnChange(fn func(State)) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Select makes pic the new original. The previous result, mode and grade are dropped and
// a running enhancement is abandoned.
func (s *Session) Select(pic *imageio.Picture) error {
	if pic == nil || pic.Image == nil {
		return fmt.Errorf("select: %w", ErrNoSource)
	}
	s.set(func(st *State) {
		s.abandonLocked()
		*st = emptyState()
		st.Original = pic
	})
	w, h := pic.Size()
	log.Printf("Selected %s source (%dx%d)", pic.MIMEType, w, h)
	return nil
}

// SelectFile reads path and selects it.
func (s *Session) SelectFile(path string) error {
	pic, err := imageio.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Select(pic)
}

// SelectDataURL decodes a data URL and selects it.
func (s *Session) SelectDataURL(url string) error {
	pic, err := imageio.FromDataURL(url)
	if err != nil {
		return err
	}
	return s.Select(pic)
}

// Reset returns to the empty state, abandoning a running enhancement.
func (s *Session) Reset() {
	s.set(func(st *State) {
		s.abandonLocked()
		*st = emptyState()
	})
}

// SetFilter selects the color grade by id.
func (s *Session) SetFilter(id string) error {
	if _, err := s.filters.Lookup(id); err != nil {
		return err
	}
	s.set(func(st *State) { st.Filter = id })
	return nil
}

// ActiveFilter returns the selected grade.
func (s *Session) ActiveFilter() grade.Filter {
	f, _ := s.filters.Get(s.State().Filter)
	return f
}

// Enhance runs the model on the original with the prompt for mode and blocks until it
// finishes. The original is always the source, never an earlier result. On failure the
// status becomes StatusError with a message for the user and the pictures are kept.
func (s *Session) Enhance(ctx context.Context, mode enhance.Mode) (State, error) {
	j, err := s.begin(ctx, mode)
	if err != nil {
		return s.State(), err
	}
	return s.run(j)
}

// Start is Enhance without waiting. It returns the job id once the request is accepted.
func (s *Session) Start(ctx context.Context, mode enhance.Mode) (string, error) {
	j, err := s.begin(ctx, mode)
	if err != nil {
		return "", err
	}
	go func() { _, _ = s.run(j) }()
	return j.id, nil
}

type job struct {
	id     string
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	mode   enhance.Mode
	prompt string
	src    *imageio.Picture
}

func (s *Session) begin(ctx context.Context, mode enhance.Mode) (*job, error) {
	prompt, err := s.prompts.For(mode)
	if err != nil {
		return nil, err
	}

	var j *job
	err = s.update(func(st *State) error {
		switch {
		case st.Original == nil:
			return ErrNoSource
		case st.Status == StatusProcessing:
			return ErrBusy
		}
		jctx, cancel := context.WithCancel(ctx)
		j = &job{
			id:     uuid.NewString(),
			gen:    s.gen,
			ctx:    jctx,
			cancel: cancel,
			mode:   mode,
			prompt: prompt.Text,
			src:    st.Original,
		}
		s.cancel = cancel
		st.Status = StatusProcessing
		st.Message = prompt.Progress
		st.JobID = j.id
		return nil
	})
	return j, err
}

func (s *Session) run(j *job) (State, error) {
	defer j.cancel()
	log.Printf("Enhancement %s started in %s mode", j.id, j.mode)

	pic, err := s.enhancer.Enhance(j.ctx, j.src, j.prompt)
	if err == nil && pic == nil {
		err = enhance.ErrNoImage
	}

	var result State
	stale := false
	s.set(func(st *State) {
		if s.gen != j.gen {
			stale = true
			return
		}
		s.cancel = nil
		if err != nil {
			st.Status = StatusError
			st.Message = enhance.UserMessage(err)
		} else {
			st.Status = StatusSuccess
			st.Message = ""
			st.Processed = pic
			st.Mode = j.mode
		}
		result = *st
	})
	if stale {
		log.Debugf("Enhancement %s discarded, source changed", j.id)
		return s.State(), ErrSuperseded
	}
	if err != nil {
		log.Printf("Enhancement %s failed: %v", j.id, err)
		return result, err
	}
	log.Printf("Enhancement %s finished", j.id)
	return result, nil
}

// ExportFileName is the suggested name for Export's output.
func (s *Session) ExportFileName() string {
	st := s.State()
	return fmt.Sprintf("realist-enhanced-%s-%s.png", st.Mode, st.Filter)
}

// Export writes the enhanced picture with the active grade baked in, as PNG.
func (s *Session) Export(w io.Writer) error {
	st := s.State()
	if st.Processed == nil {
		return ErrNothingToExport
	}
	f, err := s.filters.Lookup(st.Filter)
	if err != nil {
		return err
	}
	data, err := imageio.Encode(f.Apply(st.Processed.Image), imageio.MIMEPNG)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// abandonLocked cancels a running enhancement and invalidates its result.
func (s *Session) abandonLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// update applies fn to a copy of the state under the lock. An error discards the copy;
// otherwise listeners are notified if anything changed.
func (s *Session) update(fn func(*State) error) error {
	s.mu.Lock()
	next := s.state
	if err := fn(&next); err != nil || next == s.state {
		s.mu.Unlock()
		return err
	}
	s.state = next
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.pending = append(s.pending, notification{state: next, listeners: listeners})
	if s.delivering {
		s.mu.Unlock()
		return nil
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
	return nil
}

// deliver drains the pending notifications in order. Only one goroutine delivers at a time.
func (s *Session) deliver() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		n := s.pending[0]
		s.pending[0] = notification{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, l := range n.listeners {
			l(n.state)
		}
	}
}

func (s *Session) set(fn func(*State)) {
	_ = s.update(func(st *State) error {
		fn(st)
		return nil
	})
}
