// Package host tracks the panels a shell has open and routes messages to them.
//
// Each view type has at most one panel. Opening a view that already has a
// panel focuses it instead of creating a second one.
package host

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/gauthierbraillon/ytpanel/internal/message"
	"github.com/gauthierbraillon/ytpanel/internal/metrics"
)

// View is where a panel is shown.
type View string

const (
	ViewEditor   View = "editor"
	ViewSidebar  View = "sidebar"
	ViewExplorer View = "explorer"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewEditor, ViewSidebar, ViewExplorer:
		return true
	}
	return false
}

const defaultQueueSize = 16

// Notification levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notification is a user-visible host message outside the panel protocol.
type Notification struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Event is one entry of a panel's outbound queue: either a protocol message or
// a notification.
type Event struct {
	Message      message.Outbound
	Notification *Notification
}

// MarshalJSON writes a message in its wire form and a notification as
// {"notification": {...}}.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Message != nil {
		return message.Encode(e.Message)
	}
	return json.Marshal(struct {
		Notification *Notification `json:"notification"`
	}{e.Notification})
}

// Panel is one open panel.
type Panel struct {
	ID      string
	View    View
	events  chan Event
	done    chan struct{}
	dispose sync.Once
}

func newPanel(view View, queueSize int) *Panel {
	return &Panel{
		ID:     uuid.NewString(),
		View:   view,
		events: make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
}

// Post queues a host-initiated message. It never blocks and reports false when
// the panel is gone or its queue is full.
func (p *Panel) Post(m message.Outbound) bool {
	return p.enqueue(Event{Message: m})
}

// Notify queues a notification.
func (p *Panel) Notify(level, text string) bool {
	return p.enqueue(Event{Notification: &Notification{Level: level, Text: text}})
}

func (p *Panel) enqueue(e Event) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.events <- e:
		return true
	default:
		return false
	}
}

// Events is the panel's outbound queue.
func (p *Panel) Events() <-chan Event { return p.events }

// Done is closed when the panel is disposed.
func (p *Panel) Done() <-chan struct{} { return p.done }

func (p *Panel) close() {
	p.dispose.Do(func() { close(p.done) })
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMetrics reports the open panel count.
func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithQueueSize sets the per-panel outbound queue capacity.
func WithQueueSize(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// Registry owns every open panel. It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	byView    map[View]*Panel
	byID      map[string]*Panel
	queueSize int
	metrics   *metrics.Metrics
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byView:    make(map[View]*Panel),
		byID:      make(map[string]*Panel),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateOrFocus returns the panel for view, creating it if none is open.
// created is false when an existing panel was focused.
func (r *Registry) CreateOrFocus(view View) (p *Panel, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byView[view]; ok {
		return p, false
	}
	p = newPanel(view, r.queueSize)
	r.byView[view] = p
	r.byID[p.ID] = p
	r.metrics.SetPanelsOpen(len(r.byID))
	return p, true
}

// Lookup finds a panel by id.
func (r *Registry) Lookup(id string) (*Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	return p, ok
}

// Dispose closes a panel. It reports false for an unknown id.
func (r *Registry) Dispose(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byView, p.View)
	p.close()
	r.metrics.SetPanelsOpen(len(r.byID))
	return true
}

// Len returns the number of open panels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// APIKeyPrompt is the notification shown when no API key is configured.
const APIKeyPrompt = "A YouTube Data API key is required. Run `ytpanel config set-key <key>` and try again."

type panelIDKey struct{}

// WithPanelID marks ctx as carrying a request from the panel with the given id.
func WithPanelID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, panelIDKey{}, id)
}

// PanelIDFrom returns the id of the panel that sent the request, if any.
func PanelIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(panelIDKey{}).(string)
	return id, ok && id != ""
}

// RequestAPIKey asks the user of the requesting panel to configure a key. It
// returns immediately. Requests with no panel in ctx, or from a panel already
// disposed, prompt nobody.
func (r *Registry) RequestAPIKey(ctx context.Context) {
	id, ok := PanelIDFrom(ctx)
	if !ok {
		return
	}
	if p, ok := r.Lookup(id); ok {
		p.Notify(LevelWarning, APIKeyPrompt)
	}
}
