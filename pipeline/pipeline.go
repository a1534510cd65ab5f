package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"logsift/classify"
	"logsift/config"
	"logsift/incident"
	"logsift/internal/models"
	"logsift/storage/store"
)

var (
	// ErrQueueFull is returned by Submit when the ingestion buffer is
	// saturated. The event is dropped and the error counter incremented;
	// the pipeline keeps running.
	ErrQueueFull = errors.New("pipeline: ingestion queue full")

	// ErrNotRunning is returned by Submit outside the RUNNING state.
	ErrNotRunning = errors.New("pipeline: not running")
)

// Pipeline lifecycle states. STOPPED is terminal.
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// Pipeline is the single entry point to the ingestion-to-storage-to-incident
// pipeline. It owns a bounded queue drained by one scheduler goroutine that
// classifies, persists, and escalates events in batches.
type Pipeline struct {
	batchSize    int
	batchTimeout time.Duration

	classifier *classify.Classifier
	store      store.Store
	escalator  *incident.Escalator
	logger     *zap.Logger

	queue chan *models.LogEvent
	stats stats

	// stateMu orders Submit's check-then-enqueue against Stop's state
	// transition: once Stop has flipped the state, no send can still be in
	// flight, so the shutdown drain sees every accepted event.
	stateMu sync.RWMutex
	state   int32
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Pipeline in the CREATED state.
func New(cfg config.PipelineConfig, classifier *classify.Classifier, st store.Store, esc *incident.Escalator, logger *zap.Logger) *Pipeline {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 2048
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	batchTimeout, err := time.ParseDuration(cfg.BatchTimeout)
	if err != nil || batchTimeout <= 0 {
		logger.Warn("invalid batch_timeout, using default 1s", zap.String("value", cfg.BatchTimeout))
		batchTimeout = time.Second
	}

	return &Pipeline{
		batchSize:    cfg.BatchSize,
		batchTimeout: batchTimeout,
		classifier:   classifier,
		store:        st,
		escalator:    esc,
		logger:       logger,
		queue:        make(chan *models.LogEvent, cfg.QueueCapacity),
		done:         make(chan struct{}),
	}
}

// Start launches the batch scheduler. Calling Start on a running pipeline is
// a no-op; a stopped pipeline cannot be restarted.
func (p *Pipeline) Start() {
	if !atomic.CompareAndSwapInt32(&p.state, stateCreated, stateRunning) {
		if atomic.LoadInt32(&p.state) == stateStopped {
			p.logger.Warn("start ignored: pipeline already stopped")
		}
		return
	}

	p.logger.Info("pipeline started",
		zap.Int("queue_capacity", cap(p.queue)),
		zap.Int("batch_size", p.batchSize),
		zap.Duration("batch_timeout", p.batchTimeout))

	p.wg.Add(1)
	go p.run()
}

// Submit enqueues one event without blocking. It fails fast with
// ErrNotRunning outside the RUNNING state and with ErrQueueFull when the
// buffer is saturated; a full queue drops the event as an accepted
// degradation, counted in statistics.
func (p *Pipeline) Submit(ev *models.LogEvent) error {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	if atomic.LoadInt32(&p.state) != stateRunning {
		return ErrNotRunning
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		p.stats.incErrors()
		return ErrQueueFull
	}
}

// Stop signals the scheduler to drain its current batch plus anything left
// in the queue, then waits for it to exit. No background activity continues
// after Stop returns. Stop is idempotent and STOPPED is terminal.
func (p *Pipeline) Stop() {
	p.stateMu.Lock()
	if atomic.CompareAndSwapInt32(&p.state, stateCreated, stateStopped) {
		p.stateMu.Unlock()
		return
	}
	if !atomic.CompareAndSwapInt32(&p.state, stateRunning, stateStopped) {
		p.stateMu.Unlock()
		return
	}
	p.stateMu.Unlock()

	close(p.done)
	p.wg.Wait()
	p.logger.Info("pipeline stopped")
}

// Stats returns a consistent snapshot of the pipeline counters. Safe to call
// concurrently from any state.
func (p *Pipeline) Stats() Snapshot {
	snap := p.stats.snapshot()
	snap.QueueSize = len(p.queue)
	snap.TicketingEnabled = p.escalator.Enabled()
	return snap
}

// run is the scheduler loop: it accumulates events into a batch and flushes
// when the batch reaches batchSize or batchTimeout elapses, whichever comes
// first. On shutdown it drains the queue and flushes the final batch so no
// dequeued event is silently lost.
func (p *Pipeline) run() {
	defer p.wg.Done()

	batch := make([]*models.LogEvent, 0, p.batchSize)
	batchTimer := time.NewTimer(0)
	if !batchTimer.Stop() {
		select {
		case <-batchTimer.C:
		default:
		}
	}

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if !batchTimer.Stop() {
			select {
			case <-batchTimer.C:
			default:
			}
		}
		p.processBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case <-p.done:
			batch = p.drainInto(batch)
			flush()
			return

		case <-batchTimer.C:
			flush()

		case ev := <-p.queue:
			if len(batch) == 0 {
				batchTimer.Reset(p.batchTimeout)
			}
			batch = append(batch, ev)
			if len(batch) >= p.batchSize {
				flush()
			}
		}
	}
}

// drainInto moves everything still buffered in the queue into the batch.
// Only called on shutdown, when no new submissions are accepted.
func (p *Pipeline) drainInto(batch []*models.LogEvent) []*models.LogEvent {
	for {
		select {
		case ev := <-p.queue:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// processBatch drives classification, persistence, and escalation for each
// event. Per-event faults become counter increments; nothing here may
// terminate the scheduler.
func (p *Pipeline) processBatch(batch []*models.LogEvent) {
	if len(batch) == 0 {
		return
	}
	start := time.Now()
	ctx := context.Background()

	for _, ev := range batch {
		classified, fault := p.classifier.Classify(ev)
		if fault {
			p.stats.incErrors()
			p.logger.Warn("classification fault, defaults applied", zap.String("event_id", ev.ID))
		}

		if err := p.store.Persist(classified); err != nil {
			// Loss of durability is degraded-mode, not fatal: the event
			// still counts as processed.
			p.stats.incErrors()
			p.logger.Warn("failed to persist event", zap.String("event_id", ev.ID), zap.Error(err))
		}

		if classified.Classification.IncidentWorthy {
			switch p.escalator.MaybeEscalate(ctx, classified) {
			case incident.OutcomeCreated:
				p.stats.incIncidentsCreated()
			case incident.OutcomeSuppressed:
				p.stats.incIncidentsSuppressed()
			}
		}

		p.stats.markProcessed(time.Now())
	}

	p.logger.Debug("batch processed",
		zap.Int("size", len(batch)),
		zap.Duration("took", time.Since(start)))
}
