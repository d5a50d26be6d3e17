package servers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/messages"
)

const DefaultLocatorWriteTimeout = 5 * time.Second

// LocatorServer is a session locator. It answers every connection with one
// game server address and closes it. Addresses are handed out round-robin.
type LocatorServer struct {
	addrs    []string
	lock     sync.Mutex
	next     int
	assigned map[string]uint64
}

// NewLocatorServer creates a locator for the given game server addresses.
func NewLocatorServer(addrs []string) (*LocatorServer, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("at least one game server address is required")
	}
	return &LocatorServer{
		addrs:    addrs,
		assigned: make(map[string]uint64, len(addrs)),
	}, nil
}

// ListenAndServe listens on address and serves until ctx is done.
func (s *LocatorServer) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done. It closes listener.
func (s *LocatorServer) Serve(ctx context.Context, listener net.Listener) error {
	log.Info("Session locator listening on %s", listener.Addr().String())

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Error("Failed to accept locator connection: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// Next returns the address for the next client.
func (s *LocatorServer) Next() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	addr := s.addrs[s.next]
	s.next = (s.next + 1) % len(s.addrs)
	s.assigned[addr]++
	return addr
}

// Assignments returns how many clients each game server address was handed to.
func (s *LocatorServer) Assignments() map[string]uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	assignments := make(map[string]uint64, len(s.addrs))
	for _, addr := range s.addrs {
		assignments[addr] = s.assigned[addr]
	}
	return assignments
}

func (s *LocatorServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	addr := s.Next()
	if err := conn.SetWriteDeadline(time.Now().Add(DefaultLocatorWriteTimeout)); err != nil {
		log.Error("Failed to set write deadline for %s: %v", conn.RemoteAddr(), err)
		return
	}
	if err := messages.NewLineWriter(conn).WriteLine([]byte(addr)); err != nil {
		log.Error("Failed to send game server address to %s: %v", conn.RemoteAddr(), err)
		return
	}
	log.Debug("Assigned game server %s to %s", addr, conn.RemoteAddr())
}
