package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/api"
	"github.com/tublog/tublog-server/internal/config"
	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/ratelimit"
	"github.com/tublog/tublog-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	errc chan error
}

// Err reports a failure of the serve loop after startup.
// Nothing is sent after a clean Shutdown.
func (h *HTTPServerHandle) Err() <-chan error {
	return h.errc
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Posts:      do.MustInvoke[*service.PostService](i),
		Categories: do.MustInvoke[*service.CategoryService](i),
		Tags:       do.MustInvoke[*service.TagService](i),
		Search:     do.MustInvoke[*service.SearchService](i),
		Profiles:   do.MustInvoke[*service.ProfileService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, limiter, cfg, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return startHTTPServer(srv, log)
}

// startHTTPServer binds srv.Addr before returning so a taken port fails
// startup, then serves in the background.
func startHTTPServer(srv *http.Server, log *logger.Logger) (*HTTPServerHandle, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	h := &HTTPServerHandle{Server: srv, errc: make(chan error, 1)}

	go func() {
		log.Info("HTTP server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			h.errc <- err
		}
	}()

	return h, nil
}
