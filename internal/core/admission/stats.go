package admission

import "time"

// Stats is a snapshot of dispatcher counters
type Stats struct {
	TotalProcessed        int64         `json:"totalProcessed"`
	TotalErrors           int64         `json:"totalErrors"`
	TotalTimeouts         int64         `json:"totalTimeouts"`
	TotalQueueFull        int64         `json:"totalQueueFull"`
	AverageProcessingTime time.Duration `json:"averageProcessingTime" swaggertype:"integer"`
	LastResetTime         time.Time     `json:"lastResetTime"`
	Uptime                time.Duration `json:"uptime" swaggertype:"integer"`
	SuccessRate           float64       `json:"successRate"`
}

// Status is the live queue shape
type Status struct {
	QueueLength   int `json:"queueLength"`
	Processing    int `json:"processing"`
	MaxConcurrent int `json:"maxConcurrent"`
}

type counters struct {
	processed int64
	errors    int64
	timeouts  int64
	queueFull int64
	meanNanos float64
	started   time.Time
	lastReset time.Time
}

// observe folds one finished run into the running mean
func (c *counters) observe(d time.Duration, failed bool) {
	c.processed++
	if failed {
		c.errors++
	}
	c.meanNanos += (float64(d) - c.meanNanos) / float64(c.processed)
}

// Stats returns a snapshot
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stats{
		TotalProcessed:        d.st.processed,
		TotalErrors:           d.st.errors,
		TotalTimeouts:         d.st.timeouts,
		TotalQueueFull:        d.st.queueFull,
		AverageProcessingTime: time.Duration(d.st.meanNanos),
		LastResetTime:         d.st.lastReset,
		Uptime:                d.now().Sub(d.st.started),
	}
	if s.TotalProcessed > 0 {
		s.SuccessRate = float64(s.TotalProcessed-s.TotalErrors) / float64(s.TotalProcessed)
	}
	return s
}

// Status returns queue length, running count and capacity
func (d *Dispatcher) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{QueueLength: d.pending.Len(), Processing: d.inFlight, MaxConcurrent: d.opt.MaxConcurrent}
}

// ResetStats zeroes the counters; uptime keeps counting from construction
func (d *Dispatcher) ResetStats() {
	d.mu.Lock()
	defer d.mu.Unlock()
	started := d.st.started
	d.st = counters{started: started, lastReset: d.now()}
}
