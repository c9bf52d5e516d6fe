package bridge

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
)

const connectTimeout = 15 * time.Second

// Conn is the part of a socket.io client the bridge needs.
type Conn interface {
	On(event string, fn func(args ...any))
	Emit(event string, args ...any)
	Close()
}

// DialOptions configure Dial.
type DialOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

type socketConn struct {
	io     *socket.Socket
	logger *slog.Logger
}

func (c *socketConn) On(event string, fn func(args ...any)) {
	c.io.On(types.EventName(event), fn)
}

func (c *socketConn) Emit(event string, args ...any) {
	c.io.Emit(event, args...)
}

func (c *socketConn) Close() {
	c.logger.Info("Closing socket.io connection", "sid", c.io.Id())
	c.io.Disconnect()
}

// Dial connects to a socket.io server over the websocket transport and
// waits for the connect event.
func Dial(ctx context.Context, o DialOptions) (Conn, error) {
	logger := ctxlog.FromContext(ctx).With("component", "bridge", "url", o.URL)
	logger.Info("Connecting to render host...")

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		logger.Debug("Connection error event fired", "error", err)
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &socketConn{io: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}
