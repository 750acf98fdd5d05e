// Package worker runs processing jobs off the caller's goroutine: a
// bounded request queue feeds a single stateless job loop, and
// responses are matched to requests by caller-assigned job ids. Jobs
// run to completion one at a time; there is no cancellation once a job
// has been dispatched.
package worker

import (
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
	"github.com/ianrastall/jsontool/internal/pipeline"
)

// ErrClosed is returned by Submit and Do once the worker has stopped
// accepting jobs, either through Close or after a fatal fault.
var ErrClosed = stderrors.New("worker is closed")

// DefaultQueueSize is the request queue capacity used when none is
// given.
const DefaultQueueSize = 16

// dispatcher is the job-execution surface the worker drives.
type dispatcher interface {
	Process(rawInput string, mode models.Mode, opts models.Options) (*pipeline.Result, error)
	AnalyzeInput(rawInput string, mode models.Mode) (bool, *models.Stats)
}

// Worker processes jobs one at a time in submission order.
type Worker struct {
	dispatcher dispatcher
	requests   chan models.Request
	responses  chan models.Response
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	jobCounter int64
}

// New creates a worker with the given request queue capacity and starts
// its job loop.
func New(queueSize int) *Worker {
	return newWorker(pipeline.New(), queueSize)
}

func newWorker(d dispatcher, queueSize int) *Worker {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	w := &Worker{
		dispatcher: d,
		requests:   make(chan models.Request, queueSize),
		responses:  make(chan models.Response, queueSize),
		done:       make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// NextJobID returns the next caller-assignable job id. Ids are
// monotonically increasing and never reused for the life of the worker.
func (w *Worker) NextJobID() int64 {
	return atomic.AddInt64(&w.jobCounter, 1)
}

// Responses returns the channel job results are delivered on. It is
// closed when the worker stops. Responses arrive in job order because
// the worker processes one request at a time.
func (w *Worker) Responses() <-chan models.Response {
	return w.responses
}

// Submit queues a job. It blocks while the queue is full and fails with
// ErrClosed once the worker has stopped. A submission racing Close can
// be accepted after the job loop has already drained the queue and will
// then never run; callers waiting on a response are released when the
// responses channel closes.
func (w *Worker) Submit(req models.Request) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.requests <- req:
		return nil
	case <-w.done:
		return ErrClosed
	}
}

// Do submits one job and waits for its response, discarding any stale
// responses for earlier jobs along the way.
func (w *Worker) Do(req models.Request) (models.Response, error) {
	if err := w.Submit(req); err != nil {
		return models.Response{}, err
	}
	for resp := range w.responses {
		if resp.JobID == req.JobID {
			return resp, nil
		}
	}
	return models.Response{}, ErrClosed
}

// Close stops the worker and waits for the job loop to exit. Jobs still
// sitting in the queue are rejected.
func (w *Worker) Close() {
	w.stop()
	w.wg.Wait()
	// A submission that raced Close can land after the job loop drained
	// the queue; discard it so nothing lingers in the buffer.
	for {
		select {
		case <-w.requests:
		default:
			return
		}
	}
}

func (w *Worker) stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Worker) run() {
	defer w.wg.Done()
	defer close(w.responses)
	for {
		select {
		case <-w.done:
			w.rejectPending()
			return
		case req := <-w.requests:
			resp, fatal := w.handle(req)
			select {
			case w.responses <- resp:
			case <-w.done:
				w.rejectPending()
				return
			}
			if fatal {
				// A panic that escaped a job is fatal to this worker
				// instance; callers must discard it and create a new
				// one rather than keep submitting.
				w.stop()
				w.rejectPending()
				return
			}
		}
	}
}

// handle runs one job, converting a panic into a synthetic Worker Error
// response and reporting it as fatal.
func (w *Worker) handle(req models.Request) (resp models.Response, fatal bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			fatal = true
			resp = failureResponse(req, errors.NewProcessingError(fmt.Sprintf("Worker Error: %v", r), nil), since(start))
		}
	}()

	switch req.Action {
	case models.ActionAnalyze:
		valid, stats := w.dispatcher.AnalyzeInput(req.Payload.RawInput, req.Payload.Mode)
		return models.Response{
			JobID:      req.JobID,
			Action:     req.Action,
			OK:         true,
			DurationMs: since(start),
			Valid:      valid,
			Stats:      stats,
		}, false
	case models.ActionProcess:
		result, err := w.dispatcher.Process(req.Payload.RawInput, req.Payload.Mode, req.Payload.Options)
		if err != nil {
			return failureResponse(req, err, since(start)), false
		}
		return models.Response{
			JobID:      req.JobID,
			Action:     req.Action,
			OK:         true,
			DurationMs: since(start),
			ResultText: result.Text,
			OutputMode: result.OutputMode,
			Stats:      result.Stats,
			Message:    result.Message,
		}, false
	default:
		return failureResponse(req, errors.NewProcessingError(fmt.Sprintf("unsupported action %q", req.Action), nil), since(start)), false
	}
}

// rejectPending fails every job still sitting in the queue. Sends are
// best-effort so a caller that stopped draining responses cannot block
// shutdown.
func (w *Worker) rejectPending() {
	for {
		select {
		case req := <-w.requests:
			resp := failureResponse(req, errors.NewProcessingError("Worker Error: worker stopped before the job ran", nil), 0)
			select {
			case w.responses <- resp:
			default:
			}
		default:
			return
		}
	}
}

func failureResponse(req models.Request, err error, durationMs float64) models.Response {
	te := errors.Normalize(err)
	return models.Response{
		JobID:            req.JobID,
		Action:           req.Action,
		OK:               false,
		DurationMs:       durationMs,
		Error:            errors.Info(te),
		Stats:            te.Stats,
		ValidationReport: te.Report,
	}
}

func since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
