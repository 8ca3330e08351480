// Package notify dispatches transactional email through a worker pool. Jobs
// survive web request lifecycles; a failed delivery is logged and dropped,
// never surfaced to the request that queued it.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fairyhunter13/printshop/internal/config"
	"github.com/fairyhunter13/printshop/internal/mail"
	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/obs"
	"github.com/fairyhunter13/printshop/internal/store"
)

// deliverTimeout bounds one SMTP round trip plus the flag update.
const deliverTimeout = 30 * time.Second

// Manager coordinates workers processing queued notifications and scaling.
type Manager struct {
	cfg    config.Config
	q      *Queue
	st     *store.Store
	sender mail.Sender
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager with the given config, queue, store and
// mail sender.
func NewManager(cfg config.Config, q *Queue, st *store.Store, sender mail.Sender) *Manager {
	return &Manager{cfg: cfg, q: q, st: st, sender: sender}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.MailWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

// NotifyOrderConfirmation queues the order-confirmation email. It reports
// whether the job was accepted.
func (m *Manager) NotifyOrderConfirmation(orderID string) bool {
	return m.q.Enqueue(Job{Kind: JobOrderConfirmation, OrderID: orderID})
}

// NotifyShippingUpdate queues the shipped-notification email. It reports
// whether the job was accepted.
func (m *Manager) NotifyShippingUpdate(orderID string) bool {
	return m.q.Enqueue(Job{Kind: JobShippingUpdate, OrderID: orderID})
}

// scaler adjusts worker count based on backlog and configuration.
func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.MailWorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog == 0 {
				idleTicks++
				if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.MailWorkerMin {
					m.removeWorkers(1)
					idleTicks = 0
				}
			} else {
				idleTicks = 0
			}
		}
	}
}

// addWorkers spawns n workers.
func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("mail workers scaled", "worker_count", len(m.workerCancels))
}

// removeWorkers stops up to n workers.
func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.Logger.Info("mail workers scaled", "worker_count", len(m.workerCancels))
}

// worker drains jobs from the queue and delivers them.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-m.q.Out():
			m.process(job)
			m.q.MarkProcessed()
		}
	}
}

// process delivers one job. Errors and panics are logged and swallowed so a
// bad notification can never take a worker down.
func (m *Manager) process(job Job) {
	defer func() {
		if r := recover(); r != nil {
			obs.Logger.Error("notification panic", "kind", string(job.Kind), "order_id", job.OrderID, "panic", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()
	if err := m.deliver(ctx, job); err != nil {
		obs.Logger.Error("notification failed", "kind", string(job.Kind), "order_id", job.OrderID, "error", err)
	}
}

func (m *Manager) deliver(ctx context.Context, job Job) error {
	order, err := m.st.OrderByID(ctx, job.OrderID)
	if err != nil {
		return err
	}
	shopName, currency := m.shopIdentity(ctx)

	switch job.Kind {
	case JobOrderConfirmation:
		msg, err := mail.OrderConfirmation(order, shopName, currency)
		if err != nil {
			return err
		}
		if err := m.sender.Send(msg); err != nil {
			return err
		}
		return m.st.SetConfirmationSent(ctx, order.ID)
	case JobShippingUpdate:
		msg, err := mail.ShippingUpdate(order, shopName, currency)
		if err != nil {
			return err
		}
		if err := m.sender.Send(msg); err != nil {
			return err
		}
		return m.st.SetShippingNotified(ctx, order.ID)
	}
	return fmt.Errorf("unknown notification kind %q", job.Kind)
}

func (m *Manager) shopIdentity(ctx context.Context) (name, currency string) {
	st, err := m.st.Settings(ctx)
	if err != nil || st == nil {
		d := model.DefaultSettings()
		return d.ShopName, d.Currency
	}
	return st.ShopName, st.Currency
}

// BacklogSize returns pending jobs in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// IsShuttingDown reports whether new jobs are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until the queue is fully drained or context is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
