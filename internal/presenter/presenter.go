package presenter

import (
	"sync"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
)

// Note is a notification tagged with a sequence number so pollers can tell
// whether they have already shown it.
type Note struct {
	monitor.Notification
	Seq int64 `json:"seq"`
}

// Presenter keeps the latest rendered state and notification. It implements
// monitor.Presenter.
type Presenter struct {
	mu       sync.RWMutex
	state    monitor.State
	checking bool
	note     Note
	addrs    Addresses
	now      func() time.Time
}

// New creates a Presenter for a server reachable at addrs.
func New(addrs Addresses) *Presenter {
	return &Presenter{addrs: addrs, now: time.Now}
}

func (p *Presenter) CheckStarted() {
	p.mu.Lock()
	p.checking = true
	p.mu.Unlock()
}

func (p *Presenter) CheckFinished() {
	p.mu.Lock()
	p.checking = false
	p.mu.Unlock()
}

func (p *Presenter) Render(s monitor.State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Presenter) Notify(n monitor.Notification) {
	p.mu.Lock()
	p.note = Note{Notification: n, Seq: p.note.Seq + 1}
	p.mu.Unlock()
}

// View formats the latest state with the relative time computed now.
func (p *Presenter) View() View {
	p.mu.RLock()
	s := p.state
	s.Checking = p.checking
	addrs := p.addrs
	p.mu.RUnlock()
	return Build(s, p.now(), addrs)
}

// LastNotification returns the most recent notification, if any.
func (p *Presenter) LastNotification() (Note, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.note, p.note.Seq > 0
}

// Addresses returns the connect strings.
func (p *Presenter) Addresses() Addresses {
	return p.addrs
}
