// Package publish sends a built resource topology to a scheduler endpoint
// over socket.io.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// DefaultEvent is emitted when Publisher.Event is empty.
	DefaultEvent = "resources"
	// DefaultTimeout bounds a publish when Publisher.Timeout is zero.
	DefaultTimeout = 10 * time.Second
)

// ErrTimeout is returned when neither the connection nor the ack arrives in time.
var ErrTimeout = errors.New("publish timed out")

// Publisher emits one payload per Publish call. When AckEvent is empty the
// publish completes as soon as the payload has been emitted.
type Publisher struct {
	URL                string
	Namespace          string
	Event              string
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type result struct {
	ack any
	err error
}

// Validate checks the publisher settings without connecting.
func (p *Publisher) Validate() error {
	if p.URL == "" {
		return errors.New("publish URL is required")
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", p.URL)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", p.Timeout)
	}
	return nil
}

func (p *Publisher) event() string {
	if p.Event == "" {
		return DefaultEvent
	}
	return p.Event
}

func (p *Publisher) namespace() string {
	if p.Namespace == "" {
		return "/"
	}
	return p.Namespace
}

// Publish connects, emits payload and waits for the ack event, the
// connection error, ctx or the timeout, whichever comes first. The socket
// is always disconnected before returning.
func (p *Publisher) Publish(ctx context.Context, payload any) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish cancelled: %w", err)
	}

	logger := ctxlog.FromContext(ctx).With("url", p.URL, "event", p.event(), "ack_event", p.AckEvent)
	logger.Debug("Publishing resource graph.")

	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsed, _ := url.Parse(p.URL)
	scheme := parsed.Scheme
	switch scheme {
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, parsed.Host)

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if p.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	var connected atomic.Bool
	done := make(chan result, 1)
	finish := func(r result) {
		select {
		case done <- r:
		default:
		}
	}

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(p.namespace(), opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	io.Once(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Debug("Connected.", "sid", io.Id())
		io.Emit(p.event(), payload)
		if p.AckEvent == "" {
			finish(result{})
		}
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		finish(result{err: fmt.Errorf("socket.io connection failed: %w", err)})
	})

	if p.AckEvent != "" {
		io.Once(types.EventName(p.AckEvent), func(data ...any) {
			var ack any
			if len(data) > 0 {
				ack = data[0]
			}
			finish(result{ack: ack})
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("publish cancelled: %w", ctx.Err())
		}
		if connected.Load() {
			return fmt.Errorf("%w after connecting while waiting for %q", ErrTimeout, p.AckEvent)
		}
		return fmt.Errorf("%w while waiting for initial connection", ErrTimeout)
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		logger.Info("Resource graph published.", "ack", r.ack)
		return nil
	}
}
