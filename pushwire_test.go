package pushwire

import (
	"bufio"
	"io"
	"net"
	stdhttp "net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/method"
	"github.com/indigo-web/pushwire/http/response"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/pushwire/router"
	"github.com/indigo-web/pushwire/router/simple"
	"github.com/stretchr/testify/require"
)

func getRouter() router.Router {
	return simple.New(func(conn router.Conn, req *http.Request) {
		if req.IsUpgrade() {
			_ = conn.SendMessage([]byte("welcome to " + req.Path))
			return
		}

		body := req.Body
		if req.Method == method.GET {
			body = []byte(req.Query)
		}

		_ = conn.SendHeaders(
			response.WithCode(status.OK).Set("Content-Length", strconv.Itoa(len(body))),
			nil,
		)
		_ = conn.Send(body)
	}, func(conn router.Conn, msg []byte) {
		_ = conn.SendMessage(msg)
	})
}

func startApp(t *testing.T) (*App, chan error) {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = 50 * time.Millisecond
	cfg.NET.ReadTimeout = 5 * time.Second

	app := New("127.0.0.1:0").Tune(cfg)
	started := make(chan struct{})
	app.NotifyOnStart(func() {
		close(started)
	})

	stopped := make(chan error, 1)
	go func() {
		stopped <- app.Serve(getRouter())
	}()

	select {
	case <-started:
	case err := <-stopped:
		require.FailNow(t, "server didn't start", err)
	}

	return app, stopped
}

func stopApp(t *testing.T, app *App, stopped chan error) {
	app.Stop()

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.Fail(t, "server didn't stop")
	}
}

func TestApp(t *testing.T) {
	app, stopped := startApp(t)
	defer stopApp(t, app, stopped)

	url := "http://" + app.Addr().String()
	client := &stdhttp.Client{
		Transport: &stdhttp.Transport{DisableKeepAlives: true},
	}

	t.Run("GET", func(t *testing.T) {
		resp, err := client.Get(url + "/search?q=hello+world")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "q=hello world", string(body))
	})

	t.Run("POST", func(t *testing.T) {
		resp, err := client.Post(url+"/publish", "text/plain", strings.NewReader("Hello, world!"))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(body))
	})

	t.Run("unsupported method", func(t *testing.T) {
		req, err := stdhttp.NewRequest(stdhttp.MethodPut, url, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, stdhttp.StatusNotImplemented, resp.StatusCode)
	})

	t.Run("websocket", func(t *testing.T) {
		conn, err := net.Dial("tcp", app.Addr().String())
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

		_, err = conn.Write([]byte(
			"GET /chat HTTP/1.1\r\n" +
				"Host: example.com\r\n" +
				"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
				"Sec-WebSocket-Version: 7\r\n\r\n" +
				// "hey" masked with the zero key
				"\x81\x83\x00\x00\x00\x00hey",
		))
		require.NoError(t, err)

		reader := bufio.NewReader(conn)
		resp, err := stdhttp.ReadResponse(reader, nil)
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusSwitchingProtocols, resp.StatusCode)
		require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", resp.Header.Get("Sec-WebSocket-Accept"))

		welcome := "\x81\x10welcome to /chat"
		echo := "\x81\x03hey"
		frames := make([]byte, len(welcome)+len(echo))
		_, err = io.ReadFull(reader, frames)
		require.NoError(t, err)
		require.Equal(t, welcome+echo, string(frames))

		_, err = conn.Write([]byte("\x88\x80\x00\x00\x00\x00"))
		require.NoError(t, err)
		closing := make([]byte, 2)
		_, err = io.ReadFull(reader, closing)
		require.NoError(t, err)
		require.Equal(t, "\x88\x00", string(closing))
	})
}

func TestBadAddr(t *testing.T) {
	require.Panics(t, func() {
		New("localhost")
	})
}
