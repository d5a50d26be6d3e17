package network

import (
	"errors"
	"io"
	"net"
)

// ErrConnectionClosedByServer is returned when the peer closed the connection.
type ErrConnectionClosedByServer struct{}

func (e *ErrConnectionClosedByServer) Error() string {
	return "connection closed by server"
}

// ErrConnectionClosedByClient is returned when this process closed the connection.
type ErrConnectionClosedByClient struct{}

func (e *ErrConnectionClosedByClient) Error() string {
	return "connection closed by client"
}

// ErrNoAddress is returned when the session locator replies without an address.
var ErrNoAddress = errors.New("session locator returned no address")

// ClassifyReadError maps a read error to one of the connection-closed errors
// when it means the connection is gone, and returns it unchanged otherwise.
func ClassifyReadError(err error) error {
	if errors.Is(err, io.EOF) {
		return &ErrConnectionClosedByServer{}
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return &ErrConnectionClosedByClient{}
	}
	return err
}

// IsConnectionClosedByClient reports whether err means this process closed the connection.
func IsConnectionClosedByClient(err error) bool {
	var target *ErrConnectionClosedByClient
	return errors.As(err, &target)
}

// IsConnectionClosedByServer reports whether err means the peer closed the connection.
func IsConnectionClosedByServer(err error) bool {
	var target *ErrConnectionClosedByServer
	return errors.As(err, &target)
}
