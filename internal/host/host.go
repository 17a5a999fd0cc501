package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/message"
)

var (
	ErrPanelNotFound = errors.New("panel not found")
	ErrUnknownView   = errors.New("unknown view")
)

// Handler answers inbound panel messages. *panel.Orchestrator implements it.
type Handler interface {
	Handle(ctx context.Context, in message.Inbound) (message.Outbound, error)
}

// DefaultURLFunc yields the configured default URL.
type DefaultURLFunc func() (string, error)

type Option func(*Host)

func WithLogger(l logger.Logger) Option {
	return func(h *Host) { h.log = l }
}

// WithDefaultURL sets where OpenAndPlayDefault reads the default URL from.
func WithDefaultURL(fn DefaultURLFunc) Option {
	return func(h *Host) { h.defaultURL = fn }
}

// Host connects the registry to the orchestrator.
type Host struct {
	registry   *Registry
	handler    Handler
	defaultURL DefaultURLFunc
	log        logger.Logger
}

func New(registry *Registry, handler Handler, opts ...Option) *Host {
	h := &Host{
		registry: registry,
		handler:  handler,
		log:      logger.NewNop(),
		defaultURL: func() (string, error) {
			return "", errors.New("no default URL source configured")
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the panel registry.
func (h *Host) Registry() *Registry { return h.registry }

// Open creates or focuses the panel for view.
func (h *Host) Open(view View) (*Panel, bool, error) {
	if !view.Valid() {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	p, created := h.registry.CreateOrFocus(view)
	if created {
		h.log.Info("panel opened", logger.String("panel_id", p.ID), logger.String("view", string(view)))
	}
	return p, created, nil
}

// Close disposes a panel.
func (h *Host) Close(id string) error {
	if !h.registry.Dispose(id) {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	h.log.Info("panel closed", logger.String("panel_id", id))
	return nil
}

// Dispatch handles an inbound message from the panel with the given id.
func (h *Host) Dispatch(ctx context.Context, id string, in message.Inbound) (message.Outbound, error) {
	if _, ok := h.registry.Lookup(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	out, err := h.handler.Handle(WithPanelID(ctx, id), in)
	if err != nil {
		h.log.Warn("request failed",
			logger.String("panel_id", id),
			logger.String("command", in.Command()),
			logger.Error(err),
		)
		return nil, err
	}
	return out, nil
}

// Play makes an open panel load url. An empty url means the default URL.
func (h *Host) Play(id, url string) error {
	p, ok := h.registry.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	if url == "" {
		var err error
		if url, err = h.defaultURL(); err != nil {
			return err
		}
	}
	if !p.Post(message.LoadFromURL{URL: url}) {
		return fmt.Errorf("panel %s is not accepting messages", p.ID)
	}
	return nil
}

// OpenAndPlay makes the panel for view load url on its own.
func (h *Host) OpenAndPlay(view View, url string) (*Panel, error) {
	p, _, err := h.Open(view)
	if err != nil {
		return nil, err
	}
	if !p.Post(message.LoadFromURL{URL: url}) {
		return nil, fmt.Errorf("panel %s is not accepting messages", p.ID)
	}
	return p, nil
}

// OpenAndPlayDefault opens the panel for view on the configured default URL.
// No panel is opened when there is no default.
func (h *Host) OpenAndPlayDefault(view View) (*Panel, error) {
	url, err := h.defaultURL()
	if err != nil {
		return nil, err
	}
	return h.OpenAndPlay(view, url)
}
