package network

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/messages"
)

const (
	DefaultConnectTimeout     = 20 * time.Second
	DefaultWriteTimeout       = 1 * time.Second
	DefaultLocatorReadTimeout = 20 * time.Second
)

// ContextDialer opens network connections. *net.Dialer implements it.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ConnectOptions configures a Connector.
type ConnectOptions struct {
	// Dialer opens connections. Defaults to a *net.Dialer.
	Dialer ContextDialer
	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration
	// WriteTimeout bounds each write on the returned connection.
	WriteTimeout time.Duration
	// LocatorReadTimeout bounds reading the address from the session locator.
	LocatorReadTimeout time.Duration
	// Logger defaults to the package logger
	Logger *log.Logger
}

// Connector establishes the connection to a game server, either directly or
// through a session locator.
type Connector struct {
	dialer             ContextDialer
	connectTimeout     time.Duration
	writeTimeout       time.Duration
	locatorReadTimeout time.Duration
	logger             *log.Logger
}

// NewConnector creates a new connector. Zero options take their defaults.
func NewConnector(opts ConnectOptions) *Connector {
	c := &Connector{
		dialer:             opts.Dialer,
		connectTimeout:     opts.ConnectTimeout,
		writeTimeout:       opts.WriteTimeout,
		locatorReadTimeout: opts.LocatorReadTimeout,
		logger:             opts.Logger,
	}
	if c.dialer == nil {
		c.dialer = &net.Dialer{}
	}
	if c.connectTimeout <= 0 {
		c.connectTimeout = DefaultConnectTimeout
	}
	if c.writeTimeout <= 0 {
		c.writeTimeout = DefaultWriteTimeout
	}
	if c.locatorReadTimeout <= 0 {
		c.locatorReadTimeout = DefaultLocatorReadTimeout
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Connect returns a connection to the game server. If direct is false, address
// is a session locator that replies with the game server's address.
// Writes on the returned connection time out after the write timeout; reads never do.
func (c *Connector) Connect(ctx context.Context, address string, direct bool) (net.Conn, error) {
	serverAddr := address
	if !direct {
		located, err := c.Locate(ctx, address)
		if err != nil {
			return nil, err
		}
		serverAddr = located
	}

	c.logger.Debug("Connecting to game server at %s", serverAddr)
	conn, err := c.dial(ctx, serverAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game server %s: %w", serverAddr, err)
	}

	return &writeTimeoutConn{Conn: conn, timeout: c.writeTimeout}, nil
}

// Locate asks the session locator at address for a game server address.
func (c *Connector) Locate(ctx context.Context, address string) (string, error) {
	c.logger.Debug("Connecting to session locator at %s", address)
	conn, err := c.dial(ctx, address)
	if err != nil {
		return "", fmt.Errorf("failed to connect to session locator %s: %w", address, err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(c.locatorReadTimeout)); err != nil {
		return "", fmt.Errorf("failed to set session locator read deadline: %w", err)
	}
	line, err := messages.NewLineReader(conn).ReadLine()
	if err != nil {
		return "", fmt.Errorf("failed to read from session locator %s: %w", address, err)
	}

	serverAddr := strings.TrimSpace(string(line))
	if serverAddr == "" {
		return "", ErrNoAddress
	}
	c.logger.Debug("Session locator assigned game server %s", serverAddr)
	return serverAddr, nil
}

func (c *Connector) dial(ctx context.Context, address string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	return c.dialer.DialContext(ctx, "tcp", address)
}

// Dial connects with the default options.
func Dial(ctx context.Context, address string, direct bool) (net.Conn, error) {
	return NewConnector(ConnectOptions{}).Connect(ctx, address, direct)
}

// writeTimeoutConn applies a fresh write deadline before every write.
type writeTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *writeTimeoutConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}
