// Package bridge speaks the panel protocol as JSON lines over a stream pair,
// so a panel can live in another process.
//
// Each input line is one inbound message. Each output line is either an
// outbound message or a {"notification": {...}} object. Requests are handled
// one at a time in arrival order.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gauthierbraillon/ytpanel/internal/host"
	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/message"
)

const maxLineBytes = 1 << 20

type Option func(*Bridge)

func WithLogger(l logger.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// WithView sets the view the bridged panel registers as.
func WithView(v host.View) Option {
	return func(b *Bridge) { b.view = v }
}

// Bridge connects one panel to a line-oriented stream.
type Bridge struct {
	host *host.Host
	view host.View
	log  logger.Logger
}

func New(h *host.Host, opts ...Option) *Bridge {
	b := &Bridge{host: h, view: host.ViewEditor, log: logger.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Serve reads requests from r and writes replies to w until r is exhausted or
// ctx is cancelled. Messages the host queued for the panel, such as the
// API key prompt, are written before the reply that caused them.
func (b *Bridge) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	p, _, err := b.host.Open(b.view)
	if err != nil {
		return err
	}
	defer func() { _ = b.host.Close(p.ID) }()

	out := &lineWriter{w: w}
	if err := b.drain(p, out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := b.handleLine(ctx, p.ID, []byte(line))
		if drainErr := b.drain(p, out); drainErr != nil {
			return drainErr
		}
		if err != nil {
			b.log.Debug("request failed", logger.Error(err))
			if err := out.write(host.Event{Notification: &host.Notification{Level: host.LevelError, Text: err.Error()}}); err != nil {
				return err
			}
			continue
		}
		if reply != nil {
			if err := out.write(host.Event{Message: reply}); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (b *Bridge) handleLine(ctx context.Context, panelID string, line []byte) (message.Outbound, error) {
	in, err := message.DecodeInbound(line)
	if err != nil {
		return nil, err
	}
	return b.host.Dispatch(ctx, panelID, in)
}

// drain writes every event already queued for the panel.
func (b *Bridge) drain(p *host.Panel, out *lineWriter) error {
	for {
		select {
		case e := <-p.Events():
			if err := out.write(e); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lineWriter) write(e host.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if _, err := lw.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
