package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/messages"
	"github.com/cbodonnell/epochwars/pkg/servers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDialer records every address it is asked to dial and forwards to a real dialer.
type recordingDialer struct {
	lock     sync.Mutex
	addrs    []string
	redirect map[string]string
}

func (d *recordingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.lock.Lock()
	d.addrs = append(d.addrs, address)
	target := address
	if r, ok := d.redirect[address]; ok {
		target = r
	}
	d.lock.Unlock()
	return (&net.Dialer{}).DialContext(ctx, network, target)
}

func (d *recordingDialer) dialed() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]string(nil), d.addrs...)
}

func startLocator(t *testing.T, addrs ...string) string {
	t.Helper()
	locator, err := servers.NewLocatorServer(addrs)
	require.NoError(t, err)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go locator.Serve(ctx, listener)
	return listener.Addr().String()
}

func startGameServer(t *testing.T) (string, <-chan net.Conn) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })
	conns := make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			t.Cleanup(func() { conn.Close() })
			conns <- conn
		}
	}()
	return listener.Addr().String(), conns
}

func TestConnector_Direct(t *testing.T) {
	addr, conns := startGameServer(t)
	dialer := &recordingDialer{}
	c := NewConnector(ConnectOptions{Dialer: dialer})

	conn, err := c.Connect(context.Background(), addr, true)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, []string{addr}, dialer.dialed())
	select {
	case <-conns:
	case <-time.After(time.Second):
		t.Fatal("game server saw no connection")
	}
}

func TestConnector_Locator(t *testing.T) {
	gameAddr, conns := startGameServer(t)
	locatorAddr := startLocator(t, "127.0.0.1:9000")
	dialer := &recordingDialer{redirect: map[string]string{"127.0.0.1:9000": gameAddr}}
	c := NewConnector(ConnectOptions{Dialer: dialer})

	conn, err := c.Connect(context.Background(), locatorAddr, false)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, []string{locatorAddr, "127.0.0.1:9000"}, dialer.dialed())

	var server net.Conn
	select {
	case server = <-conns:
	case <-time.After(time.Second):
		t.Fatal("game server saw no connection")
	}

	_, err = messages.NewLineWriter(conn).WriteClientMessage(messages.ClientWelcome{Name: "alice"})
	require.NoError(t, err)
	line, err := messages.NewLineReader(server).ReadLine()
	require.NoError(t, err)
	msg, err := messages.DecodeClientMessage(line)
	require.NoError(t, err)
	assert.Equal(t, messages.ClientWelcome{Name: "alice"}, msg)
}

func TestConnector_LogsWithSessionLogger(t *testing.T) {
	gameAddr, _ := startGameServer(t)
	locatorAddr := startLocator(t, gameAddr)

	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0, log.LogLevelDebug).With("session", "abc")
	c := NewConnector(ConnectOptions{Logger: logger})
	conn, err := c.Connect(context.Background(), locatorAddr, false)
	require.NoError(t, err)
	defer conn.Close()

	var msgs []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte{'\n'}) {
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "abc", entry["session"])
		msgs = append(msgs, entry["msg"].(string))
	}
	assert.Equal(t, []string{
		"Connecting to session locator at " + locatorAddr,
		"Session locator assigned game server " + gameAddr,
		"Connecting to game server at " + gameAddr,
	}, msgs)
}

func TestConnector_LocatorEmptyReply(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte("   \n"))
		conn.Close()
	}()

	_, err = NewConnector(ConnectOptions{}).Connect(context.Background(), listener.Addr().String(), false)
	assert.True(t, errors.Is(err, ErrNoAddress), "got %v", err)
}

func TestConnector_LocatorClosesWithoutReply(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	_, err = NewConnector(ConnectOptions{}).Connect(context.Background(), listener.Addr().String(), false)
	assert.Error(t, err)
}

func TestConnector_Refused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	_, err = NewConnector(ConnectOptions{ConnectTimeout: time.Second}).Connect(context.Background(), addr, true)
	assert.Error(t, err)
}

func TestConnector_BadAddress(t *testing.T) {
	_, err := NewConnector(ConnectOptions{ConnectTimeout: time.Second}).Connect(context.Background(), "not an address", true)
	assert.Error(t, err)
}

func TestConnector_WriteTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	conn := &writeTimeoutConn{Conn: client, timeout: 20 * time.Millisecond}
	defer conn.Close()

	// nobody reads from the pipe, so the write must time out instead of blocking
	_, err := conn.Write([]byte("hello\n"))
	var netErr net.Error
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, netErr.Timeout())
}

func TestClassifyReadError(t *testing.T) {
	client, server := net.Pipe()
	server.Close()
	_, err := client.Read(make([]byte, 1))
	assert.True(t, IsConnectionClosedByServer(ClassifyReadError(err)))

	client.Close()
	_, err = client.Read(make([]byte, 1))
	assert.True(t, IsConnectionClosedByClient(ClassifyReadError(err)))

	other := errors.New("boom")
	assert.Equal(t, other, ClassifyReadError(other))
}
