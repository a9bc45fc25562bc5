// Package network lets the HTTPS listener answer plain HTTP requests with a
// redirect to the https:// address instead of a TLS handshake error.
package network

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"sync"
)

// tlsHandshake is the record type every TLS connection starts with.
const tlsHandshake = 0x16

type redirectListener struct {
	net.Listener
}

// NewRedirectListener wraps l. Wrap the result with tls.NewListener.
func NewRedirectListener(l net.Listener) net.Listener {
	return &redirectListener{Listener: l}
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &sniffConn{Conn: conn, r: bufio.NewReader(conn)}, nil
}

// sniffConn peeks at the first byte. Anything but a TLS handshake is read as
// an HTTP request and answered with 307 to the same URL over https.
type sniffConn struct {
	net.Conn

	r    *bufio.Reader
	once sync.Once
	done bool
}

func (c *sniffConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if c.done {
		return 0, io.EOF
	}
	return c.r.Read(b)
}

func (c *sniffConn) sniff() {
	first, err := c.r.Peek(1)
	if err != nil || first[0] == tlsHandshake {
		return
	}
	c.done = true
	defer c.Conn.Close()

	req, err := http.ReadRequest(c.r)
	if err != nil {
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", "https://"+req.Host+req.RequestURI)
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
}
