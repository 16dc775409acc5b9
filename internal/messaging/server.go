// Package messaging runs the embedded NATS server carrying all client
// traffic: request/reply RPC and per-player event pushes.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// Server wraps an embedded NATS server together with an internal client
// connection used for in-process publishing and subscribing.
type Server struct {
	ns    *server.Server
	conn  *nats.Conn
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
}

func NewServer(opts ...ServerOpt) (*Server, error) {
	s := &Server{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(s.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	s.conn = conn
	close(s.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", s.ns.Addr())

	<-ctx.Done()
	s.conn.Close()
	s.ns.Shutdown()
	s.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the server accepts connections and the internal
// client is wired up.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// ClientURL returns the URL clients should connect to.
func (s *Server) ClientURL() string {
	return s.ns.ClientURL()
}

func (s *Server) connection() (*nats.Conn, error) {
	select {
	case <-s.ready:
		return s.conn, nil
	default:
		return nil, fmt.Errorf("nats server not started")
	}
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (s *Server) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Handle answers requests on the given subject. Handlers sharing a queue
// group split the load, so each request gets exactly one response.
// Returns an unsubscribe function to remove the handler.
func (s *Server) Handle(subject, queue string, handler func(data []byte) []byte) (func(), error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	sub, err := conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		if err := msg.Respond(handler(msg.Data)); err != nil {
			slog.Error("responding to request", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject
func (s *Server) Publish(subject string, data []byte) error {
	conn, err := s.connection()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}
