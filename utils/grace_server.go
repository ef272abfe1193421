package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = defaultReadTimeout
	shutdownTimeout     = 30 * time.Second
	gracefulEnvKey      = "IS_GRACEFUL"
	gracefulEnvValue    = gracefulEnvKey + "=1"
	gracefulListenerFD  = 3
)

// Server wraps http.Server with signal driven shutdown and zero-downtime restart.
// SIGTERM/SIGINT drain connections; SIGUSR2 forks a child that inherits the listener.
type Server struct {
	*http.Server
	listener net.Listener
	signals  chan os.Signal
	done     chan struct{}
}

// NewServer creates a Server with the default timeouts.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then drains in-flight requests.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := listen(srv.Addr)
	if err != nil {
		return err
	}
	return srv.serve(ctx, ln)
}

// serve blocks on ln. A clean shutdown waits for in-flight requests to drain; any other
// Serve error is returned at once.
func (srv *Server) serve(ctx context.Context, ln net.Listener) error {
	srv.listener = ln

	signal.Notify(srv.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	defer signal.Stop(srv.signals)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.watch(ctx)

	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-srv.done
	return nil
}

func listen(addr string) (net.Listener, error) {
	if os.Getenv(gracefulEnvKey) != "" {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			Sugar.Info("context cancelled, shutting down HTTP server")
			srv.shutdown()
			return
		case sig := <-srv.signals:
			switch sig {
			case syscall.SIGUSR2:
				pid, err := srv.fork()
				if err != nil {
					Sugar.Errorf("restart failed, continue serving: %v", err)
					continue
				}
				Sugar.Infof("restarted as pid=%d, draining old server", pid)
			default:
				Sugar.Infof("received %s, shutting down HTTP server", sig)
			}
			srv.shutdown()
			return
		}
	}
}

func (srv *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	}
	close(srv.done)
}

// fork starts a copy of this binary that takes over the listening socket.
func (srv *Server) fork() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}

	envs := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			envs = append(envs, e)
		}
	}
	envs = append(envs, gracefulEnvValue)

	return syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   envs,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
}
