package generation

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Timeouts mirrors the per-phase timeouts of one upstream service.
// Read and Write are inactivity timeouts: each read or write on the
// connection must make progress within the duration.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// DefaultTimeouts are the upstream defaults (connect 10s, read 80s, write 30s).
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect: 10 * time.Second,
		Read:    80 * time.Second,
		Write:   30 * time.Second,
	}
}

// NewHTTPClient builds a client whose transport enforces t. The client has no
// overall timeout; the caller's context bounds the whole exchange.
func NewHTTPClient(t Timeouts) *http.Client {
	dialer := &net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, read: t.Read, write: t.Write}, nil
		},
		TLSHandshakeTimeout:   t.Connect,
		ResponseHeaderTimeout: t.Read,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{Transport: transport}
}

type deadlineConn struct {
	net.Conn
	read  time.Duration
	write time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.write)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}
