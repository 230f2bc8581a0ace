package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"sync"
	"sync/atomic"
)

// Subscription is one open server-push channel. It moves from open to closed
// exactly once, on the first transport error, end of stream, context
// cancellation or Close; it never reopens.
type Subscription struct {
	endpoint string
	events   chan Event
	done     chan struct{}
	cancel   context.CancelFunc
	closed   atomic.Bool

	mu  sync.Mutex
	err error
}

// Subscribe opens a server-push channel to endpoint in the background and
// returns immediately. Connection failures are reported through Err once
// Done is closed.
func (c *Client) Subscribe(ctx context.Context, endpoint string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		endpoint: endpoint,
		events:   make(chan Event),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go s.run(ctx, c)
	return s
}

// Events yields messages in transport order. It is closed when the
// subscription closes.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns why the subscription closed. It is nil while open and after an
// explicit Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the channel down and waits for the connection to be released.
// Calling it more than once, or after a failure, is a no-op.
func (s *Subscription) Close() {
	s.closed.Store(true)
	s.cancel()
	<-s.done
}

func (s *Subscription) run(ctx context.Context, c *Client) {
	defer close(s.events)

	err := s.consume(ctx, c)

	s.mu.Lock()
	if s.closed.Load() {
		err = nil
	}
	s.err = err
	s.mu.Unlock()

	if err != nil {
		c.logger.DebugContext(ctx, "event stream closed", "endpoint", s.endpoint, "error", err)
	}
	s.cancel()
	close(s.done)
}

func (s *Subscription) consume(ctx context.Context, c *Client) error {
	req, err := c.newRequest(ctx, s.endpoint, "text/event-stream")
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("subscribe %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: s.endpoint}
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mt != "text/event-stream" {
		return fmt.Errorf("%w: %q", ErrNotEventStream, resp.Header.Get("Content-Type"))
	}

	c.logger.DebugContext(ctx, "event stream opened", "endpoint", s.endpoint)

	dec := newEventDecoder(resp.Body)
	for {
		ev, err := dec.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrStreamEnded
			}
			return fmt.Errorf("read %s: %w", s.endpoint, err)
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stream subscribes to endpoint and calls onMessage with the raw payload of
// every message, one at a time and in order. On failure onError, when not nil,
// is called once and the channel is closed. The returned function closes the
// channel and may be called from inside onMessage. Once it returns no new
// handler call starts, but it does not wait for a call already running on
// another goroutine to finish.
func (c *Client) Stream(ctx context.Context, endpoint string, onMessage func(data string), onError func(err error)) (dispose func()) {
	d := &dispatcher{sub: c.Subscribe(ctx, endpoint)}
	go d.run(onMessage, onError)
	return d.dispose
}

type dispatcher struct {
	sub *Subscription

	mu       sync.Mutex // guards disposed against a handler call starting
	disposed bool
}

func (d *dispatcher) run(onMessage func(string), onError func(error)) {
	for ev := range d.sub.Events() {
		if !d.deliver(func() { onMessage(ev.Data) }) {
			return
		}
	}
	if err := d.sub.Err(); err != nil && onError != nil {
		d.deliver(func() { onError(err) })
	}
}

func (d *dispatcher) deliver(fn func()) bool {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return false
	}
	d.mu.Unlock()
	fn()
	return true
}

func (d *dispatcher) dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	d.mu.Unlock()
	d.sub.Close()
}
