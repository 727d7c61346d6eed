package udp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"weather-udp/config"
	"weather-udp/internal/protocol"
	"weather-udp/pkg/logger"
)

const (
	DefaultBufferSize = 8192
	// replies must leave this much room below the receive buffer size
	replyHeadroom = 100
)

// Handler answers decoded requests. *weather.WeatherService satisfies it.
type Handler interface {
	Process(ctx context.Context, req protocol.Request) protocol.Response
}

type Options struct {
	BufferSize     int
	Workers        int
	QueueSize      int
	OversizePolicy string
}

type Server struct {
	conn    net.PacketConn
	handler Handler
	opts    Options
	l       *logger.Logger

	serving   atomic.Bool
	closeOnce sync.Once
}

// Listen binds the UDP socket. The server does not read until Serve.
func Listen(addr string, handler Handler, opts Options, l *logger.Logger) (*Server, error) {
	if opts.BufferSize <= replyHeadroom {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.OversizePolicy == "" {
		opts.OversizePolicy = config.OversizeChunk
	}

	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind udp %s: %w", addr, err)
	}

	return &Server{
		conn:    conn,
		handler: handler,
		opts:    opts,
		l:       l,
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Ready reports whether the receive loop is running.
func (s *Server) Ready() bool {
	return s.serving.Load()
}

// Serve runs the receive loop until ctx is cancelled, then waits for
// in-flight handlers and closes the socket.
func (s *Server) Serve(ctx context.Context) error {
	var d dispatcher
	handlerCtx := context.WithoutCancel(ctx)
	handle := func(dg datagram) { s.handle(handlerCtx, dg) }
	if s.opts.Workers > 0 {
		d = newPoolDispatcher(s.opts.Workers, s.opts.QueueSize, handle)
	} else {
		d = newSpawnDispatcher(handle)
	}

	stop := context.AfterFunc(ctx, func() {
		// unblocks ReadFrom while keeping the socket open for replies
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	s.serving.Store(true)
	s.l.Info("udp server listening", map[string]any{
		"addr":    s.Addr().String(),
		"workers": s.opts.Workers,
		"policy":  s.opts.OversizePolicy,
	})

	buf := make([]byte, s.opts.BufferSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.l.Warning("udp read failed", map[string]any{"error": err})
			continue
		}

		dg := datagram{data: bytes.Clone(buf[:n]), addr: addr}
		if !d.Submit(dg) {
			s.l.Warning("handler queue full, datagram dropped", map[string]any{
				"remote": addr.String(),
				"queue":  s.opts.QueueSize,
			})
		}
	}

	s.serving.Store(false)
	d.Close()
	s.l.Info("udp server stopped, handlers drained")

	if err := s.Shutdown(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Shutdown closes the socket. Serve returns once the loop notices.
func (s *Server) Shutdown() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

func (s *Server) handle(ctx context.Context, dg datagram) {
	l := s.l.With(map[string]any{
		"request_id": uuid.NewString(),
		"remote":     dg.addr.String(),
	})

	defer func() {
		if r := recover(); r != nil {
			l.Error(fmt.Errorf("handler panic: %v", r))
			s.reply(l, dg.addr, protocol.NewErrorResponse(fmt.Sprintf("Server error: %v", r)))
		}
	}()

	req, err := protocol.DecodeRequest(dg.data)
	if err != nil {
		l.Warning("malformed request", map[string]any{"error": err, "bytes": len(dg.data)})
		s.reply(l, dg.addr, protocol.NewErrorResponse("Invalid JSON format"))
		return
	}

	l.Info("request received", map[string]any{"type": req.Type, "city": req.City})

	started := time.Now()
	resp := s.handler.Process(ctx, req)

	l.Info("request processed", map[string]any{
		"success":  resp.Success,
		"error":    resp.Error,
		"duration": time.Since(started).String(),
	})

	s.reply(l, dg.addr, resp)
}

func (s *Server) reply(l *logger.Logger, addr net.Addr, resp protocol.Response) {
	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		l.Error(err, map[string]any{"stage": "encode"})
		data, _ = protocol.EncodeResponse(protocol.NewErrorResponse("Server error: " + err.Error()))
	}

	limit := s.opts.BufferSize - replyHeadroom
	packets := [][]byte{data}
	if len(data) > limit {
		switch s.opts.OversizePolicy {
		case config.OversizeTruncate:
			l.Warning("response truncated", map[string]any{"bytes": len(data), "limit": limit})
			packets = [][]byte{protocol.Truncate(data, limit)}
		default:
			packets, err = protocol.Split(data, limit)
			if err != nil {
				l.Error(err, map[string]any{"stage": "split", "bytes": len(data)})
				packets = [][]byte{protocol.Truncate(data, limit)}
			} else {
				l.Debug("response split into frames", map[string]any{"bytes": len(data), "frames": len(packets)})
			}
		}
	}

	for _, p := range packets {
		if _, err := s.conn.WriteTo(p, addr); err != nil {
			l.Error(err, map[string]any{"stage": "write"})
			return
		}
	}
}
