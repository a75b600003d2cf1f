// Package http exposes the user directory and image uploads over HTTP.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/models"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// UserDirectory is what the handlers need from services.UserService.
type UserDirectory interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, bool, error)
	List(ctx context.Context) ([]*models.User, error)
}

// ImageStore is what the handlers need from services.UploadService.
type ImageStore interface {
	Save(ctx context.Context, original string, r io.Reader) (*models.StoredFile, error)
	Inspect(ctx context.Context, r io.Reader) (*models.PostImage, error)
	MaxSize() int64
}

// Pinger checks store reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HTTPServer struct {
	address        string
	users          UserDirectory
	images         ImageStore
	store          Pinger
	logger         logging.Logger
	requestTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us UserDirectory, is ImageStore, p Pinger, requestTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		users:          us,
		images:         is,
		store:          p,
		requestTimeout: requestTimeout,
	}
}

// Handler returns the routed handler with the full middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.createUser)
	mux.HandleFunc("GET /users", s.listUsers)
	mux.HandleFunc("GET /user", s.getUser)
	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("POST /upload_image", s.uploadImage)
	mux.HandleFunc("POST /photo", s.uploadPhoto)
	mux.HandleFunc("POST /create_post", s.createPost)

	return chain(mux,
		requestID(),
		tracing(),
		accessLog(s.logger),
		recoverPanic(s.logger),
		timeout(s.requestTimeout),
	)
}

// Run listens on the configured address and serves until ctx is cancelled,
// then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for the drain
	<-stopped
	return nil
}
