/*
queue.go - Asynchronous award ingestion

PURPOSE:

	Extracting an award from a pay guide is a slow call to an external
	service. The Queue accepts documents, runs extraction on a small worker
	pool and upserts the result into the registry. Callers poll the job.

JOB LIFECYCLE:

	pending -> running -> succeeded | failed

	A job that fails at any step (extraction error, timeout, undecodable
	JSON, strict validation, store failure) is marked failed and the
	registry is not touched.

DESIGN:
  - Fixed worker pool reading a buffered channel
  - Each job runs under its own timeout
  - Stop() cancels in-flight work and waits for workers

USAGE:

	q := ingest.NewQueue(ingester, logger, ingest.QueueOptions{Workers: 2})
	q.Start()
	job, _ := q.Submit(ingest.Document{Name: "retail.pdf", MIMEType: "application/pdf", Data: b})
	// ... later
	job, _ = q.Get(job.ID)
	q.Stop()
*/
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairpay/award-engine/award"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Document is an award pay guide to ingest.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsText reports whether the document is sent as plain text.
func (d Document) IsText() bool {
	return d.MIMEType == "" || d.MIMEType == "text/plain"
}

// Extractor turns a document into award JSON. Implemented by the assistant.
type Extractor interface {
	ExtractAward(ctx context.Context, doc Document) ([]byte, error)
}

// Upserter receives parsed awards. Implemented by *award.Registry.
type Upserter interface {
	Upsert(ctx context.Context, a award.Award) error
}

// =============================================================================
// INGESTER - One synchronous ingestion
// =============================================================================

type Ingester struct {
	Extractor Extractor
	Registry  Upserter
	Parser    Parser
}

// Ingest extracts, parses and upserts doc.
func (in *Ingester) Ingest(ctx context.Context, doc Document) (Result, error) {
	raw, err := in.Extractor.ExtractAward(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("extraction failed: %w", err)
	}
	res, err := in.Parser.Parse(raw)
	if err != nil {
		return res, err
	}
	if err := in.Registry.Upsert(ctx, res.Award); err != nil {
		return res, err
	}
	return res, nil
}

// =============================================================================
// QUEUE
// =============================================================================

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a snapshot of an ingestion job.
type Job struct {
	ID          string     `json:"id"`
	Document    string     `json:"document"`
	Status      JobStatus  `json:"status"`
	AwardCode   string     `json:"awardCode,omitempty"`
	AwardName   string     `json:"awardName,omitempty"`
	Problems    []Problem  `json:"problems,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// Done reports whether the job reached a final state.
func (j Job) Done() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

var (
	ErrQueueFull    = errors.New("ingestion queue is full")
	ErrQueueStopped = errors.New("ingestion queue is stopped")
	ErrJobNotFound  = errors.New("ingestion job not found")
)

type QueueOptions struct {
	Workers    int
	Buffer     int
	JobTimeout time.Duration
}

type Queue struct {
	ingester *Ingester
	logger   *zap.Logger
	opts     QueueOptions

	work   chan queued
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	jobs    map[string]*Job
	started bool
	stopped bool
}

type queued struct {
	id  string
	doc Document
}

// NewQueue creates a stopped queue. Zero options get defaults:
// 2 workers, buffer 16, 2 minute job timeout.
func NewQueue(ingester *Ingester, logger *zap.Logger, opts QueueOptions) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ingester: ingester,
		logger:   logger,
		opts:     opts,
		work:     make(chan queued, opts.Buffer),
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[string]*Job),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.run(i)
	}
	q.logger.Info("ingestion queue started", zap.Int("workers", q.opts.Workers))
}

// Stop cancels running jobs and waits for the workers to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.work)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	q.logger.Info("ingestion queue stopped")
}

// Submit enqueues doc without blocking.
func (q *Queue) Submit(doc Document) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return Job{}, ErrQueueStopped
	}

	job := &Job{
		ID:          uuid.NewString(),
		Document:    doc.Name,
		Status:      JobPending,
		SubmittedAt: time.Now().UTC(),
	}
	select {
	case q.work <- queued{id: job.ID, doc: doc}:
	default:
		return Job{}, ErrQueueFull
	}
	q.jobs[job.ID] = job
	return *job, nil
}

// Get returns a snapshot of the job.
func (q *Queue) Get(id string) (Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

func (q *Queue) run(worker int) {
	defer q.wg.Done()
	for item := range q.work {
		q.process(worker, item)
	}
}

func (q *Queue) process(worker int, item queued) {
	q.update(item.id, func(j *Job) { j.Status = JobRunning })

	log := q.logger.With(zap.String("job", item.id), zap.String("document", item.doc.Name), zap.Int("worker", worker))

	ctx, cancel := context.WithTimeout(q.ctx, q.opts.JobTimeout)
	defer cancel()

	start := time.Now()
	res, err := q.ingester.Ingest(ctx, item.doc)

	q.update(item.id, func(j *Job) {
		now := time.Now().UTC()
		j.FinishedAt = &now
		j.AwardCode = res.Award.Code
		j.AwardName = res.Award.Name
		j.Problems = res.Problems
		if err != nil {
			j.Status = JobFailed
			j.Error = err.Error()
			return
		}
		j.Status = JobSucceeded
	})

	if err != nil {
		log.Warn("ingestion failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	log.Info("award ingested",
		zap.String("code", res.Award.Code),
		zap.Int("classifications", len(res.Award.Classifications)),
		zap.Int("problems", len(res.Problems)),
		zap.Duration("elapsed", time.Since(start)))
}

func (q *Queue) update(id string, fn func(*Job)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job, ok := q.jobs[id]; ok {
		fn(job)
	}
}
