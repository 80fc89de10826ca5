// Package orchestrator coordinates the segmented AI generation calls that
// produce draft content: a mandatory base segment followed by optional
// enrichment segments, with per-segment status tracking, targeted retry
// and cooperative cancellation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/draft-assistant/internal/events"
	"github.com/jonathan/draft-assistant/internal/types"
)

// ErrAborted is the sentinel surfaced as the run's last error after Abort.
var ErrAborted = errors.New("generation aborted")

// Generator is the remote generation service contract. Calls may fail or
// be slow; each optional segment is independent.
type Generator interface {
	GenerateBase(ctx context.Context, userID uuid.UUID, jobID string, opts types.GenerationOptions) (*types.BaseContent, error)
	GenerateSkills(ctx context.Context, userID uuid.UUID, jobID string) (*types.SkillsContent, error)
	GenerateExperience(ctx context.Context, userID uuid.UUID, jobID string) (*types.ExperienceContent, error)
}

// Orchestrator drives one generation run at a time. All exported methods
// are safe for concurrent use; Run blocks until the run finishes, so Abort
// is expected to arrive from another goroutine.
type Orchestrator struct {
	gen Generator
	bus *events.Bus

	mu         sync.Mutex
	state      map[types.SegmentKey]types.SegmentStatus
	lastErr    string
	result     *types.MergedContent
	generating bool
	cancelled  bool

	// Per-segment content kept so a targeted retry can re-merge without
	// re-running the segments that already succeeded.
	base       *types.BaseContent
	skills     *types.SkillsContent
	experience *types.ExperienceContent

	lastUserID uuid.UUID
	lastJobID  string
	lastOpts   types.GenerationOptions
}

// New creates an orchestrator with every segment idle.
func New(gen Generator, bus *events.Bus) *Orchestrator {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Orchestrator{
		gen:   gen,
		bus:   bus,
		state: idleState(),
	}
}

func idleState() map[types.SegmentKey]types.SegmentStatus {
	state := map[types.SegmentKey]types.SegmentStatus{
		types.SegmentBase: types.SegmentIdle,
	}
	for _, key := range types.OptionalSegments() {
		state[key] = types.SegmentIdle
	}
	return state
}

// Run starts a generation run for the given job. It is an idempotent no-op
// while another run is in flight. The base segment is awaited first; the
// requested optional segments then race independently, and a failure in
// one never aborts its siblings or invalidates the base result.
func (o *Orchestrator) Run(ctx context.Context, userID uuid.UUID, jobID string, opts types.GenerationOptions) error {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return nil
	}
	o.generating = true
	o.cancelled = false
	o.lastErr = ""
	o.result = nil
	o.base, o.skills, o.experience = nil, nil, nil
	o.lastUserID, o.lastJobID, o.lastOpts = userID, jobID, opts

	o.state[types.SegmentBase] = types.SegmentRunning
	for _, key := range types.OptionalSegments() {
		if opts.Requested(key) {
			o.state[key] = types.SegmentRunning
		} else {
			o.state[key] = types.SegmentSkipped
		}
	}
	o.mu.Unlock()

	o.bus.Publish(events.Event{Type: events.TypeRunStarted, JobID: jobID})

	base, err := o.gen.GenerateBase(ctx, userID, jobID, opts)
	if done := o.commitBase(jobID, base, err); done {
		return o.finish(jobID)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, key := range types.OptionalSegments() {
		if !opts.Requested(key) {
			continue
		}
		key := key
		g.Go(func() error {
			o.runOptional(gCtx, userID, jobID, key)
			return nil
		})
	}
	_ = g.Wait()

	o.mu.Lock()
	if !o.cancelled {
		o.result = Merge(o.base, o.skills, o.experience)
	}
	o.mu.Unlock()

	return o.finish(jobID)
}

// commitBase records the base segment outcome. It returns true when the
// run cannot proceed to optional segments (base failed or run cancelled).
func (o *Orchestrator) commitBase(jobID string, base *types.BaseContent, err error) bool {
	o.mu.Lock()

	if o.cancelled {
		// Abort already marked the segments; drop the late result.
		o.mu.Unlock()
		return true
	}
	if err != nil {
		o.state[types.SegmentBase] = types.SegmentError
		o.lastErr = fmt.Sprintf("base generation failed: %v", err)
		// Optional segments never got to run.
		for _, key := range types.OptionalSegments() {
			if o.state[key] == types.SegmentRunning {
				o.state[key] = types.SegmentError
			}
		}
		lastErr := o.lastErr
		o.mu.Unlock()
		o.publishSegment(jobID, types.SegmentBase, types.SegmentError, nil, lastErr)
		return true
	}

	o.base = base
	o.state[types.SegmentBase] = types.SegmentSuccess
	o.result = Merge(base, nil, nil)
	o.mu.Unlock()
	o.publishSegment(jobID, types.SegmentBase, types.SegmentSuccess, base, "")
	return false
}

// runOptional executes one optional segment and records its outcome in its
// own status slot only.
func (o *Orchestrator) runOptional(ctx context.Context, userID uuid.UUID, jobID string, key types.SegmentKey) {
	var (
		skills *types.SkillsContent
		exp    *types.ExperienceContent
		err    error
	)
	switch key {
	case types.SegmentSkills:
		skills, err = o.gen.GenerateSkills(ctx, userID, jobID)
	case types.SegmentExperience:
		exp, err = o.gen.GenerateExperience(ctx, userID, jobID)
	default:
		return
	}

	o.mu.Lock()

	if o.cancelled {
		// A success arriving after abort must not finish a cancelled run.
		o.mu.Unlock()
		return
	}
	if err != nil {
		o.state[key] = types.SegmentError
		o.lastErr = fmt.Sprintf("%s generation failed: %v", key, err)
		lastErr := o.lastErr
		o.mu.Unlock()
		o.publishSegment(jobID, key, types.SegmentError, nil, lastErr)
		return
	}

	var content any
	switch key {
	case types.SegmentSkills:
		o.skills = skills
		content = skills
	case types.SegmentExperience:
		o.experience = exp
		content = exp
	}
	o.state[key] = types.SegmentSuccess
	o.mu.Unlock()
	o.publishSegment(jobID, key, types.SegmentSuccess, content, "")
}

// finish publishes the terminal event for the run and releases the
// in-flight guard.
func (o *Orchestrator) finish(jobID string) error {
	o.mu.Lock()
	cancelled := o.cancelled
	lastErr := o.lastErr
	result := o.result
	o.generating = false
	o.mu.Unlock()

	if cancelled {
		o.bus.Publish(events.Event{Type: events.TypeRunAborted, JobID: jobID, Error: lastErr})
		return ErrAborted
	}
	o.bus.Publish(events.Event{Type: events.TypeRunCompleted, JobID: jobID, Error: lastErr, Content: result})
	if result == nil && lastErr != "" {
		return errors.New(lastErr)
	}
	return nil
}

// publishSegment emits a per-segment completion event. The bus tolerates
// absent or faulty listeners.
func (o *Orchestrator) publishSegment(jobID string, key types.SegmentKey, status types.SegmentStatus, content any, errMsg string) {
	o.bus.Publish(events.Event{
		Type:    events.TypeSegmentCompleted,
		JobID:   jobID,
		Segment: key,
		Status:  status,
		Error:   errMsg,
		Content: content,
	})
}

// Abort cooperatively cancels the in-flight run: in-flight calls are not
// terminated, but their results are no longer committed. Calling Abort
// with no run active is a no-op.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.generating || o.cancelled {
		return
	}
	o.cancelled = true
	for key, status := range o.state {
		if status == types.SegmentRunning {
			o.state[key] = types.SegmentError
		}
	}
	o.lastErr = ErrAborted.Error()
}

// Reset returns every segment to idle and clears the merged result, the
// last error and the cancellation flag. Reset during an in-flight run is
// a no-op; Abort first.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return
	}
	o.state = idleState()
	o.result = nil
	o.lastErr = ""
	o.cancelled = false
	o.base, o.skills, o.experience = nil, nil, nil
	o.mu.Unlock()

	o.bus.Publish(events.Event{Type: events.TypeRunReset})
}

// RetrySegment re-runs a single segment. Retrying base restarts the whole
// run with the last-used job and options, because the optional segments
// depend on its content. Retrying an optional segment re-invokes only that
// segment and re-merges on top of the previously successful base; sibling
// segments keep their existing content and are not re-fetched.
func (o *Orchestrator) RetrySegment(ctx context.Context, key types.SegmentKey) error {
	if key == types.SegmentBase {
		o.mu.Lock()
		userID, jobID, opts := o.lastUserID, o.lastJobID, o.lastOpts
		o.mu.Unlock()
		if jobID == "" {
			return fmt.Errorf("no previous run to retry")
		}
		return o.Run(ctx, userID, jobID, opts)
	}

	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return nil
	}
	if o.state[types.SegmentBase] != types.SegmentSuccess {
		o.mu.Unlock()
		return fmt.Errorf("cannot retry %s: base segment has not succeeded", key)
	}
	status, ok := o.state[key]
	if !ok || (status != types.SegmentError && status != types.SegmentSuccess) {
		o.mu.Unlock()
		return fmt.Errorf("cannot retry %s: segment is %s", key, status)
	}
	o.generating = true
	o.cancelled = false
	o.state[key] = types.SegmentRunning
	userID, jobID := o.lastUserID, o.lastJobID
	o.mu.Unlock()

	o.runOptional(ctx, userID, jobID, key)

	o.mu.Lock()
	if !o.cancelled {
		o.result = Merge(o.base, o.skills, o.experience)
	}
	o.mu.Unlock()

	return o.finish(jobID)
}

// RetryFailedOptional retries every optional segment currently in error,
// honoring the data dependency on a successful base.
func (o *Orchestrator) RetryFailedOptional(ctx context.Context) error {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return nil
	}
	var failed []types.SegmentKey
	for _, key := range types.OptionalSegments() {
		if o.state[key] == types.SegmentError {
			failed = append(failed, key)
		}
	}
	o.mu.Unlock()

	for _, key := range failed {
		if err := o.RetrySegment(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// State returns a copy of the per-segment status map.
func (o *Orchestrator) State() map[types.SegmentKey]types.SegmentStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	state := make(map[types.SegmentKey]types.SegmentStatus, len(o.state))
	for key, status := range o.state {
		state[key] = status
	}
	return state
}

// Result returns the merged content of the current run, or nil until the
// base segment has succeeded.
func (o *Orchestrator) Result() *types.MergedContent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// LastError returns the most recent error message, empty when none.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Generating reports whether a run is in flight.
func (o *Orchestrator) Generating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}
