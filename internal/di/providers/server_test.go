package providers

import (
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tublog/tublog-server/internal/logger"
)

func TestStartHTTPServer_PortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { taken.Close() })

	srv := &http.Server{Addr: taken.Addr().String(), Handler: http.NotFoundHandler()}

	h, err := startHTTPServer(srv, logger.Discard())
	require.Error(t, err)
	assert.Nil(t, h)
	assert.Contains(t, err.Error(), taken.Addr().String())
}

func TestStartHTTPServer_CleanShutdownReportsNothing(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	h, err := startHTTPServer(srv, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, h.Shutdown())

	select {
	case err := <-h.Err():
		t.Fatalf("unexpected serve error after shutdown: %v", err)
	default:
	}
}
