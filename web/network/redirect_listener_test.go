package network

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return NewRedirectListener(l)
}

func TestPlainHTTPIsRedirected(t *testing.T) {
	l := listen(t)

	serverErr := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			serverErr <- err
			return
		}
		_, err = conn.Read(make([]byte, 16))
		serverErr <- err
	}()

	client, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	_, err = io.WriteString(client, "GET /posts/1/?page=2 HTTP/1.1\r\nHost: yatube.test:8000\r\n\r\n")
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://yatube.test:8000/posts/1/?page=2", resp.Header.Get("Location"))
	assert.ErrorIs(t, <-serverErr, io.EOF)
}

func TestTLSPassesThrough(t *testing.T) {
	l := listen(t)

	got := make(chan []byte, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			got <- nil
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		_, _ = io.ReadFull(conn, buf)
		got <- buf
	}()

	client, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	_, err = client.Write([]byte{tlsHandshake, 3, 1, 0})
	require.NoError(t, err)

	assert.Equal(t, []byte{tlsHandshake, 3, 1, 0}, <-got)
}
