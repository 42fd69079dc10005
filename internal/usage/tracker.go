// Package usage records one event per successful authenticated tool call.
// Recording is best-effort: failures are logged and reported in the Result,
// never returned to the request that triggered them.
package usage

import (
	"context"
	"time"

	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/models"
)

const recordTimeout = 5 * time.Second

// Recorder persists usage events.
type Recorder interface {
	Record(ctx context.Context, ev models.ToolUsage) error
}

// Publisher forwards usage events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, ev models.ToolUsage) error
}

// Result reports what Track did. Callers are free to ignore it.
type Result struct {
	Skipped   bool // anonymous caller, nothing recorded
	Recorded  bool
	Published bool
	Err       error
}

type Tracker struct {
	recorder  Recorder
	publisher Publisher
	log       logging.Logger
}

// NewTracker builds a tracker. publisher may be nil.
func NewTracker(recorder Recorder, publisher Publisher, log logging.Logger) *Tracker {
	return &Tracker{recorder: recorder, publisher: publisher, log: log}
}

// Track records that userID used tool. An empty userID is skipped.
func (t *Tracker) Track(ctx context.Context, userID string, tool models.Tool) Result {
	if t == nil || userID == "" {
		return Result{Skipped: true}
	}

	// the event outlives a client that hung up after receiving its result
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	ev := models.NewToolUsage(userID, tool)
	var res Result

	if err := t.recorder.Record(ctx, ev); err != nil {
		t.log.Warn(ctx, "usage tracking failed", "tool", tool.Name, "user_id", userID, "error", err)
		res.Err = err
		return res
	}
	res.Recorded = true

	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, ev); err != nil {
			t.log.Warn(ctx, "usage event publish failed", "tool", tool.Name, "error", err)
			res.Err = err
			return res
		}
		res.Published = true
	}
	return res
}
