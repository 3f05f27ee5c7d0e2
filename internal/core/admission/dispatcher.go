// Package admission bounds how many classification calls run at once. Work is
// queued FIFO up to a fixed length, each waiting task carries its own timeout,
// and every task resolves exactly once
package admission

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	perr "adwarden/internal/platform/errors"
)

var (
	// ErrQueueFull is returned synchronously when the pending list is at capacity
	ErrQueueFull = perr.New(perr.ErrorCodeTooManyRequests, "classification queue is full")
	// ErrQueueTimeout resolves a task that waited longer than the queue timeout
	ErrQueueTimeout = perr.New(perr.ErrorCodeTimeout, "classification task timed out in queue")
)

// Func performs the classification of one text
type Func func(ctx context.Context, text string) (bool, error)

const (
	statePending int32 = iota
	stateRunning
	stateExpired
)

type task struct {
	id          string
	text        string
	ctx         context.Context
	submittedAt time.Time

	state atomic.Int32
	elem  *list.Element
	timer *time.Timer

	once sync.Once
	done chan struct{}
	isAd bool
	err  error
}

func (t *task) settle(isAd bool, err error) {
	t.once.Do(func() {
		t.isAd, t.err = isAd, err
		close(t.done)
	})
}

// Ticket is the caller's handle on a queued task
type Ticket struct{ t *task }

// ID returns the task id
func (k *Ticket) ID() string { return k.t.id }

// Wait blocks until the task resolves or ctx ends. Abandoning a ticket does not
// cancel a task that is already running
func (k *Ticket) Wait(ctx context.Context) (bool, error) {
	select {
	case <-k.t.done:
		return k.t.isAd, k.t.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Dispatcher runs Func with bounded concurrency
type Dispatcher struct {
	run Func
	opt Options
	now func() time.Time

	mu       sync.Mutex
	pending  *list.List
	inFlight int
	st       counters
}

// New builds a Dispatcher around fn
func New(fn Func, opt Options) *Dispatcher {
	d := &Dispatcher{
		run:     fn,
		opt:     opt.withDefaults(),
		now:     time.Now,
		pending: list.New(),
	}
	d.st.started = d.now()
	d.st.lastReset = d.st.started
	return d
}

// Enabled reports whether tasks go through the queue
func (d *Dispatcher) Enabled() bool { return d.opt.Enabled }

// Submit enqueues text and waits for its verdict. A disabled dispatcher calls
// the classifier directly
func (d *Dispatcher) Submit(ctx context.Context, text string) (bool, error) {
	if !d.opt.Enabled {
		return d.run(ctx, text)
	}
	tk, err := d.Enqueue(ctx, text)
	if err != nil {
		return false, err
	}
	return tk.Wait(ctx)
}

// Enqueue admits text or fails with ErrQueueFull. ctx values are kept for the run
// but its cancellation is not
func (d *Dispatcher) Enqueue(ctx context.Context, text string) (*Ticket, error) {
	t := &task{
		id:          uuid.NewString(),
		text:        text,
		ctx:         context.WithoutCancel(ctx),
		submittedAt: d.now(),
		done:        make(chan struct{}),
	}

	if !d.opt.Enabled {
		go d.execute(t, false)
		return &Ticket{t: t}, nil
	}

	d.mu.Lock()
	if d.pending.Len() >= d.opt.MaxQueueSize {
		d.st.queueFull++
		d.mu.Unlock()
		taskOutcomes.WithLabelValues(d.opt.Name, "rejected").Inc()
		d.opt.Log.Warn().Str("queue", d.opt.Name).Int("max_size", d.opt.MaxQueueSize).Msg("classification queue full")
		return nil, ErrQueueFull
	}
	t.elem = d.pending.PushBack(t)
	t.timer = time.AfterFunc(d.opt.QueueTimeout, func() { d.expire(t) })
	queueLength.WithLabelValues(d.opt.Name).Set(float64(d.pending.Len()))
	d.mu.Unlock()

	d.pump()
	return &Ticket{t: t}, nil
}

// expire removes a task that is still waiting when its timer fires
func (d *Dispatcher) expire(t *task) {
	if !t.state.CompareAndSwap(statePending, stateExpired) {
		return
	}
	d.mu.Lock()
	d.pending.Remove(t.elem)
	d.st.timeouts++
	queueLength.WithLabelValues(d.opt.Name).Set(float64(d.pending.Len()))
	d.mu.Unlock()

	taskOutcomes.WithLabelValues(d.opt.Name, "timeout").Inc()
	d.opt.Log.Warn().Str("queue", d.opt.Name).Str("task_id", t.id).
		Dur("waited", d.now().Sub(t.submittedAt)).Msg("classification task timed out in queue")
	t.settle(false, ErrQueueTimeout)
}

// pump starts pending tasks while there is spare capacity
func (d *Dispatcher) pump() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for d.inFlight < d.opt.MaxConcurrent && d.pending.Len() > 0 {
		t := d.pending.Remove(d.pending.Front()).(*task)
		if !t.state.CompareAndSwap(statePending, stateRunning) {
			continue
		}
		t.timer.Stop()
		d.inFlight++
		go d.execute(t, true)
	}
	queueLength.WithLabelValues(d.opt.Name).Set(float64(d.pending.Len()))
	queueInFlight.WithLabelValues(d.opt.Name).Set(float64(d.inFlight))
}

// call runs the task, turning a panic into an error so the slot is released
func (d *Dispatcher) call(t *task) (isAd bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			isAd, err = false, perr.PanicErrf("classification task panicked: %v", r)
		}
	}()
	return d.run(t.ctx, t.text)
}

func (d *Dispatcher) execute(t *task, queued bool) {
	start := d.now()
	isAd, err := d.call(t)
	elapsed := d.now().Sub(start)

	d.mu.Lock()
	if queued {
		d.inFlight--
	}
	d.st.observe(elapsed, err != nil)
	d.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	taskOutcomes.WithLabelValues(d.opt.Name, outcome).Inc()
	processingSeconds.WithLabelValues(d.opt.Name).Observe(elapsed.Seconds())

	t.settle(isAd, err)
	if queued {
		d.pump()
	}
}
