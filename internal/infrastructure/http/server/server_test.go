package server

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestServer_MetricsRoute(t *testing.T) {
	srv := NewServer("test", "0", zerolog.Nop())
	srv.RegisterMetrics()

	handler, _ := srv.Router.Lookup(fasthttp.MethodGet, "/metrics", &fasthttp.RequestCtx{})
	assert.NotNil(t, handler)
}

func TestServer_StartFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := NewServer("test", port, zerolog.Nop())
	srv.addr = "127.0.0.1:" + port

	assert.Error(t, srv.Start())
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := NewServer("test", "0", zerolog.Nop())
	srv.addr = "127.0.0.1:0"

	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Shutdown(context.Background()))
}
