package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/vpd-calculator/internal/infra/config"
	"github.com/yanqian/vpd-calculator/internal/infra/gridcache"
)

type countingPurger struct{ calls chan struct{} }

func (p *countingPurger) Purge() int {
	select {
	case p.calls <- struct{}{}:
	default:
	}
	return 0
}

func TestAppRunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	purger := &countingPurger{calls: make(chan struct{}, 1)}
	janitor, err := gridcache.NewJanitor(purger, 10*time.Millisecond, logger)
	require.NoError(t, err)

	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	app := NewApp(&config.Config{}, logger, server, janitor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-purger.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never swept")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppRunReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	app := NewApp(&config.Config{}, logger, server, nil)

	require.Error(t, app.Run(context.Background()))
}
