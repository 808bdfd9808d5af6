package pushwire

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/internal/address"
	"github.com/indigo-web/pushwire/internal/server/session"
	"github.com/indigo-web/pushwire/internal/server/tcp"
	iotcp "github.com/indigo-web/pushwire/internal/tcp"
	"github.com/indigo-web/pushwire/router"
	"github.com/indigo-web/pushwire/router/simple"
	"go.uber.org/zap"
)

// App is the push server bound to a single address.
type App struct {
	addr   string
	cfg    *config.Config
	logger *zap.Logger
	hooks  hooks
	server atomic.Pointer[tcp.Server]
	stop   atomic.Bool
}

// New returns a new App instance. An address consisting only of the port, e.g. ":8080",
// listens on all the interfaces.
func New(addr string) *App {
	normalized, err := address.Normalize(addr)
	if err != nil {
		panic(fmt.Errorf("pushwire: bad addr %q: %w", addr, err))
	}

	return &App{
		addr:   normalized,
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}
}

// Tune replaces the default config. The config must be derived from config.Default().
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger sets the diagnostic sink. Nothing is logged by default.
func (a *App) Logger(logger *zap.Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback as soon as the listener is bound, so connections are
// already accepted at the moment it's called.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the accept loop returned and every connection
// was served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve starts the server and blocks until Stop is called. If nil router is passed,
// every request and message is silently ignored.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		r = simple.New(nil, nil)
	}

	l, err := tcp.Bind(a.addr)
	if err != nil {
		return err
	}

	server := tcp.NewServer(l, a.cfg.NET.AcceptLoopInterruptPeriod)
	a.server.Store(server)
	if a.stop.Load() {
		server.Stop()
	}

	a.logger.Info("listening", zap.Stringer("addr", server.Addr()))
	callIfNotNil(a.hooks.OnStart)

	err = server.Serve(func(conn net.Conn) {
		client := iotcp.NewClient(conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize))
		session.New(a.cfg, client, r, a.logger).Serve()
	})

	_ = server.Close()
	server.Wait()
	a.logger.Info("stopped", zap.Error(err))
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Addr returns the address the server is listening on, or nil if it isn't started yet.
func (a *App) Addr() net.Addr {
	if server := a.server.Load(); server != nil {
		return server.Addr()
	}

	return nil
}

// Stop makes the server stop accepting new connections. Serve returns after the
// connections already accepted are served.
//
// NOTE: the call isn't blocking.
func (a *App) Stop() {
	a.stop.Store(true)
	if server := a.server.Load(); server != nil {
		server.Stop()
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
