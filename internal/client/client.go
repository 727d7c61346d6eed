package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"weather-udp/internal/protocol"
	"weather-udp/pkg/logger"
)

// ErrTimeout is returned once every attempt went unanswered.
var ErrTimeout = errors.New("request timeout")

const (
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 200 * time.Millisecond
	DefaultBufferSize = 16384
)

type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	BufferSize int
}

// Client talks to the weather server. Every attempt uses a fresh socket,
// so a late reply to an abandoned attempt can never be mistaken for the
// answer to the next one.
type Client struct {
	addr string
	opts Options
	l    *logger.Logger
}

func New(addr string, opts Options, l *logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &Client{addr: addr, opts: opts, l: l}
}

// Do sends req and returns the decoded envelope. Transport failures are
// retried; a reply that fails to decode is not.
func (c *Client) Do(ctx context.Context, req protocol.Request) (*protocol.Response, error) {
	payload, err := protocol.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.opts.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := c.roundTrip(ctx, payload)
		if err == nil {
			return protocol.DecodeResponse(raw, req.Type)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err
		c.l.Warning("udp attempt failed", map[string]any{
			"attempt": attempt + 1,
			"of":      c.opts.MaxRetries,
			"error":   err,
		})
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.opts.MaxRetries, lastErr)
}

// roundTrip performs one send and waits for one complete reply.
func (c *Client) roundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", c.addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline, bounded := time.Now().Add(c.opts.Timeout), false
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline, bounded = ctxDeadline, true
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return nil, err
	}

	var asm protocol.Assembler
	buf := make([]byte, c.opts.BufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if bounded {
					return nil, context.DeadlineExceeded
				}
				return nil, ErrTimeout
			}
			return nil, err
		}

		if !protocol.IsFrame(buf[:n]) {
			return append([]byte(nil), buf[:n]...), nil
		}

		frame, err := protocol.ParseFrame(buf[:n])
		if err != nil {
			c.l.Debug("ignoring malformed frame", map[string]any{"error": err})
			continue
		}
		if asm.Add(frame) {
			return asm.Bytes(), nil
		}
	}
}

// Current fetches current conditions and forecasts for city.
func (c *Client) Current(ctx context.Context, city string) (*WeatherData, error) {
	resp, err := c.Do(ctx, protocol.NewCurrentRequest(city))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Error}
	}
	return NewWeatherData(resp.Current)
}

// DayDetail fetches the details of the UTC day containing dayTimestamp.
func (c *Client) DayDetail(ctx context.Context, city string, dayTimestamp int64) (*DayDetail, error) {
	resp, err := c.Do(ctx, protocol.NewDayDetailRequest(city, dayTimestamp))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Error}
	}
	return NewDayDetail(resp.Detail)
}

// ServerError is a success=false answer.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
