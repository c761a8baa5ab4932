package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/ggicci/httpin"
	"github.com/ggicci/httpin/integration"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hleb-kastseika/tg-channel-to-rss/internal/scraper"
	"github.com/hleb-kastseika/tg-channel-to-rss/pkg/feed"
)

const shutdownTimeout = 5 * time.Second

func init() {
	integration.UseGorillaMux("path", mux.Vars)
}

type Server struct {
	router   *mux.Router
	scrapers *scraper.Registry
	apiKey   string
}

// New creates a feeds server. When apiKey is not empty, feed requests must
// carry it in the key query parameter.
func New(apiKey string) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		scrapers: scraper.NewRegistry(),
		apiKey:   apiKey,
	}
	s.register("/", func(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
		http.NotFound(writer, request)
	})
	return s
}

func Register[P feed.Params](s *Server, feed feed.Feed[P]) error {
	scraper, err := scraper.Add(s.scrapers, feed)
	if err != nil {
		return err
	}

	var path string
	if subPath, ok := feed.Path(); ok {
		path = fmt.Sprintf("/%s/%s", feed.Name(), strings.TrimPrefix(subPath, "/"))
	} else {
		path = fmt.Sprintf("/%s.rss", feed.Name())
	}

	s.register(path, func(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
		if !s.authorize(request) {
			http.Error(writer, "Unauthorized", http.StatusUnauthorized)
			return
		}

		params, err := httpin.Decode[P](request)
		if err != nil {
			logging.L(ctx).Warnf("Invalid feed parameters: %s.", err)
			http.NotFound(writer, request)
			return
		}

		result := scraper.Scrape(ctx, *params)
		result.Write(ctx, writer)
	})

	return nil
}

func (s *Server) authorize(request *http.Request) bool {
	return s.apiKey == "" || request.URL.Query().Get("key") == s.apiKey
}

func (s *Server) Serve(ctx context.Context, feedsAddr string, metricsAddr string) error {
	var waitGroup sync.WaitGroup
	defer waitGroup.Wait()

	if err := prometheus.DefaultRegisterer.Register(s.scrapers); err != nil {
		return err
	}

	//nolint:gosec
	feedsServer := http.Server{
		Addr:     feedsAddr,
		Handler:  s.router,
		ErrorLog: log.New(newHTTPLogger(logging.L(ctx)), "Feeds HTTP server: ", 0),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	defer shutdown(ctx, &feedsServer, "feeds")

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: newPrometheusLogger(logging.L(ctx)),
	}))

	//nolint:gosec
	metricsServer := http.Server{
		Addr:     metricsAddr,
		Handler:  metricsMux,
		ErrorLog: log.New(newHTTPLogger(logging.L(ctx)), "Metrics HTTP server: ", 0),
	}
	defer shutdown(ctx, &metricsServer, "metrics")

	logging.L(ctx).Infof("Listening on %s (feeds) and %s (metrics)...", feedsAddr, metricsAddr)

	feedsSocket, err := net.Listen("tcp", feedsAddr)
	if err != nil {
		return err
	}
	closeFeedsSocket := true
	defer func() {
		if closeFeedsSocket {
			if err := feedsSocket.Close(); err != nil {
				logging.L(ctx).Errorf("Failed to close a socket: %s.", err)
			}
		}
	}()

	metricsSocket, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		return err
	}
	closeMetricsSocket := true
	defer func() {
		if closeMetricsSocket {
			if err := metricsSocket.Close(); err != nil {
				logging.L(ctx).Errorf("Failed to close a socket: %s.", err)
			}
		}
	}()

	serverCrashed := make(chan error, 2)

	closeFeedsSocket = false
	waitGroup.Go(func() {
		if err := feedsServer.Serve(feedsSocket); !errors.Is(err, http.ErrServerClosed) {
			serverCrashed <- fmt.Errorf("feeds HTTP server has crashed: %w", err)
		}
	})

	closeMetricsSocket = false
	waitGroup.Go(func() {
		if err := metricsServer.Serve(metricsSocket); !errors.Is(err, http.ErrServerClosed) {
			serverCrashed <- fmt.Errorf("metrics HTTP server has crashed: %w", err)
		}
	})

	select {
	case <-ctx.Done():
		logging.L(ctx).Infof("Shutting the server down...")
		return nil
	case err := <-serverCrashed:
		return err
	}
}

func shutdown(ctx context.Context, server *http.Server, name string) {
	// The serve context is already cancelled at this point, so give the
	// in-flight requests their own deadline to finish.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.L(ctx).Errorf("Failed to shutdown %s HTTP server: %s.", name, err)
	}
}

func (s *Server) register(path string, handler func(ctx context.Context, writer http.ResponseWriter, request *http.Request)) {
	s.router.HandleFunc(path, func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		logging.L(ctx).Debugf("%s %s...", request.Method, request.RequestURI)
		handler(ctx, writer, request)
		logging.L(ctx).Debugf("%s %s finished.", request.Method, request.RequestURI)
	})
}
