package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hivelabs/hivesync/internal/logging"
	"github.com/hivelabs/hivesync/internal/metrics"
	"github.com/hivelabs/hivesync/internal/models"
	"github.com/hivelabs/hivesync/internal/services"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

type Options struct {
	Endpoint  string        // base URL of the receiver, e.g. http://sync.internal:8080
	Secret    string        // shared secret; empty disables delivery
	Timeout   time.Duration // per-request bound, DefaultTimeout if zero
	Workers   int
	QueueSize int
	Client    *http.Client // optional; built from Timeout if nil
	Logger    *slog.Logger
}

// Dispatcher delivers sync messages to the receiver without ever blocking or
// failing the mutation path that triggered them. Dispatch and DispatchBatch
// enqueue onto a bounded queue drained by a fixed pool of workers; every
// failure mode (network error, non-2xx status, full queue, missing secret)
// is logged and counted, never returned to the caller.
type Dispatcher struct {
	endpoint string
	secret   string
	client   *http.Client
	log      *slog.Logger

	tasks chan task
	group *errgroup.Group

	mu     sync.Mutex
	closed bool
}

type task struct {
	path     string
	body     []byte
	model    string
	op       models.Operation
	recordID string
}

func New(opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Dispatcher{
		endpoint: opts.Endpoint,
		secret:   opts.Secret,
		client:   opts.Client,
		log:      opts.Logger,
		tasks:    make(chan task, opts.QueueSize),
		group:    &errgroup.Group{},
	}

	for i := 0; i < opts.Workers; i++ {
		d.group.Go(func() error {
			for t := range d.tasks {
				metrics.QueueDepth.Set(float64(len(d.tasks)))
				d.deliver(t)
			}
			return nil
		})
	}

	return d
}

// Dispatch queues one sync message for delivery. It returns immediately and
// never reports failure to the caller.
func (d *Dispatcher) Dispatch(model string, op models.Operation, recordID string, data map[string]any) {
	msg := models.NewSyncMessage(model, op, recordID, data)

	body, err := json.Marshal(msg)
	if err != nil {
		d.log.Error("sync dispatch: failed to encode message",
			logging.Model(model), logging.Operation(string(op)), logging.RecordID(recordID), logging.Error(err))
		return
	}

	d.enqueue(task{
		path:     "/sync",
		body:     body,
		model:    model,
		op:       op,
		recordID: recordID,
	})
}

// DispatchBatch queues an ordered sequence of records sharing one model and
// operation as a single batch request.
func (d *Dispatcher) DispatchBatch(model string, op models.Operation, records []models.BatchRecord) {
	if len(records) == 0 {
		return
	}

	msg := models.BatchMessage{
		Model:     model,
		Operation: op,
		Records:   records,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		d.log.Error("sync dispatch: failed to encode batch",
			logging.Model(model), logging.Operation(string(op)), logging.Error(err))
		return
	}

	d.enqueue(task{
		path:  "/sync/batch",
		body:  body,
		model: model,
		op:    op,
	})
}

func (d *Dispatcher) enqueue(t task) {
	if d.secret == "" {
		d.log.Warn("sync dispatch skipped: no shared secret configured",
			logging.Model(t.model), logging.Operation(string(t.op)))
		metrics.DeliveriesTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return
	}
	if d.endpoint == "" {
		d.log.Warn("sync dispatch skipped: no endpoint configured",
			logging.Model(t.model), logging.Operation(string(t.op)))
		metrics.DeliveriesTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("sync dispatch skipped: dispatcher closed", logging.Model(t.model))
		metrics.DeliveriesTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return
	}

	select {
	case d.tasks <- t:
		metrics.QueueDepth.Set(float64(len(d.tasks)))
	default:
		// Best-effort delivery: a full queue drops the message rather than
		// blocking the mutation path.
		d.log.Warn("sync dispatch dropped: queue full",
			logging.Model(t.model), logging.Operation(string(t.op)), logging.RecordID(t.recordID))
		metrics.QueueDrops.Inc()
	}
}

func (d *Dispatcher) deliver(t task) {
	req, err := http.NewRequest(http.MethodPost, d.endpoint+t.path, bytes.NewReader(t.body))
	if err != nil {
		d.fail(t, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(services.SecretHeader, d.secret)

	resp, err := d.client.Do(req)
	if err != nil {
		d.fail(t, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.fail(t, fmt.Errorf("receiver returned status %d", resp.StatusCode))
		return
	}

	metrics.DeliveriesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	d.log.Debug("sync delivered",
		logging.Model(t.model), logging.Operation(string(t.op)), logging.RecordID(t.recordID))
}

func (d *Dispatcher) fail(t task, err error) {
	metrics.DeliveriesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	d.log.Error("sync delivery failed",
		logging.Model(t.model), logging.Operation(string(t.op)), logging.RecordID(t.recordID), logging.Error(err))
}

// Close stops accepting new dispatches and waits for queued deliveries to
// drain, bounded by ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatcher drain interrupted: %w", ctx.Err())
	}
}
