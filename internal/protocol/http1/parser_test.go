package http1

import (
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/headers"
	"github.com/indigo-web/pushwire/http/method"
	"github.com/indigo-web/pushwire/http/proto"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/pushwire/internal/buffer"
	"github.com/indigo-web/pushwire/internal/requestgen"
	"github.com/stretchr/testify/require"
)

// snapshot copies everything out of the request, as the request itself is valid only
// during the callback.
type snapshot struct {
	Method    method.Method
	URI       string
	Path      string
	Query     string
	Host      string
	Headers   []headers.Line
	Body      string
	WebSocket proto.WebSocket
}

func takeSnapshot(request *http.Request) snapshot {
	s := snapshot{
		Method:    request.Method,
		URI:       strings.Clone(request.URI),
		Path:      strings.Clone(request.Path),
		Query:     strings.Clone(request.Query),
		Host:      strings.Clone(request.Host),
		Body:      string(request.Body),
		WebSocket: request.WebSocket,
	}

	for key, value := range request.Headers.All() {
		s.Headers = append(s.Headers, headers.Line{Key: strings.Clone(key), Value: strings.Clone(value)})
	}

	return s
}

func getParser(cfg *config.Config, initialBuffer int) (*Parser, *buffer.Buffer, *[]snapshot) {
	buf := buffer.New(initialBuffer, cfg.NET.Buffer.Maximal)
	request := http.NewRequest(headers.New(cfg.Headers.Number.Default, cfg.Headers.Number.Maximal), nil)
	snapshots := new([]snapshot)
	p := NewParser(cfg, buf, request, func(request *http.Request) {
		*snapshots = append(*snapshots, takeSnapshot(request))
	})

	return p, buf, snapshots
}

func feed(p *Parser, buf *buffer.Buffer, data string) (State, error) {
	if !buf.Append([]byte(data)) {
		return Pending, status.ErrBufferOverflow
	}

	return p.Parse()
}

func splitIntoParts(req string, n int) (parts []string) {
	for i := 0; i < len(req); i += n {
		end := i + n
		if end > len(req) {
			end = len(req)
		}

		parts = append(parts, req[i:end])
	}

	return parts
}

func feedPartially(p *Parser, buf *buffer.Buffer, raw string, n int) (state State, err error) {
	for _, chunk := range splitIntoParts(raw, n) {
		if state, err = feed(p, buf, chunk); err != nil {
			return state, err
		}
	}

	return state, err
}

func TestParser(t *testing.T) {
	cfg := config.Default()

	t.Run("simple GET", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\n\r\n"
		p, buf, requests := getParser(cfg, 64)
		state, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Equal(t, Pending, state)
		require.Len(t, *requests, 1)
		require.Equal(t, method.GET, (*requests)[0].Method)
		require.Equal(t, "/", (*requests)[0].URI)
		require.Zero(t, buf.Len())
	})

	t.Run("GET with headers and query", func(t *testing.T) {
		raw := "GET /channel/1?user=me&x=%20y HTTP/1.1\r\n" +
			"Host: localhost:6969\r\n" +
			"User-Agent: tests\r\n" +
			"\r\n"
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Len(t, *requests, 1)

		request := (*requests)[0]
		require.Equal(t, "/channel/1?user=me&x= y", request.URI)
		require.Equal(t, "/channel/1", request.Path)
		require.Equal(t, "user=me&x= y", request.Query)
		require.Equal(t, "localhost:6969", request.Host)
		require.Equal(t, []headers.Line{
			{Key: "Host", Value: "localhost:6969"},
			{Key: "User-Agent", Value: "tests"},
		}, request.Headers)
	})

	t.Run("escaped path", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "GET /hello%20world%2f+x HTTP/1.1\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, "/hello world/ x", (*requests)[0].Path)
	})

	t.Run("empty query", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "GET /path? HTTP/1.1\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, "/path", (*requests)[0].Path)
		require.Empty(t, (*requests)[0].Query)
	})

	t.Run("bare LF line endings", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "GET /lf HTTP/1.1\nHost: x\n\n")
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Equal(t, "x", (*requests)[0].Host)
	})

	t.Run("arbitrary chunking", func(t *testing.T) {
		raw := "GET /path/to/resource?a=b HTTP/1.1\r\n" +
			"Host: example.com\r\n" +
			"Accept: */*\r\n" +
			"X-Random: " + uniuri.NewLen(100) + "\r\n" +
			"\r\n"
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		want := (*requests)[0]

		for n := 1; n <= len(raw); n++ {
			p, buf, requests := getParser(cfg, 16)
			_, err := feedPartially(p, buf, raw, n)
			require.NoError(t, err, n)
			require.Len(t, *requests, 1, n)
			require.Equal(t, want, (*requests)[0], n)
		}
	})

	t.Run("POST", func(t *testing.T) {
		body := uniuri.NewLen(100)
		raw := "POST /publish HTTP/1.1\r\n" +
			"Content-Length: 100\r\n" +
			"\r\n" + body
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Equal(t, method.POST, (*requests)[0].Method)
		require.Equal(t, body, (*requests)[0].Body)
	})

	t.Run("POST arbitrary chunking", func(t *testing.T) {
		body := uniuri.NewLen(37)
		raw := "POST /publish?ch=x HTTP/1.1\r\n" +
			"content-length: 37\r\n" +
			"Host: localhost\r\n" +
			"\r\n" + body

		for n := 1; n <= len(raw); n++ {
			p, buf, requests := getParser(cfg, 8)
			_, err := feedPartially(p, buf, raw, n)
			require.NoError(t, err, n)
			require.Len(t, *requests, 1, n)
			require.Equal(t, body, (*requests)[0].Body, n)
			require.Equal(t, "ch=x", (*requests)[0].Query, n)
		}
	})

	t.Run("POST body waits for all the bytes", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n12345")
		require.NoError(t, err)
		require.Empty(t, *requests)

		_, err = feed(p, buf, "6789")
		require.NoError(t, err)
		require.Empty(t, *requests)

		_, err = feed(p, buf, "0")
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Equal(t, "1234567890", (*requests)[0].Body)
	})

	t.Run("pipelined requests", func(t *testing.T) {
		raw := "POST /a HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello" +
			"GET /b HTTP/1.1\r\n\r\n" +
			"GET /c HTTP/1.1\r\n\r\n"
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Len(t, *requests, 3)
		require.Equal(t, "hello", (*requests)[0].Body)
		require.Equal(t, "/b", (*requests)[1].URI)
		require.Equal(t, "/c", (*requests)[2].URI)
		require.Zero(t, buf.Len())
	})

	t.Run("many headers in a single read", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i < 500; i++ {
			b.WriteString("X-Header: value\r\n")
		}
		b.WriteString("\r\n")

		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, b.String())
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Len(t, (*requests)[0].Headers, cfg.Headers.Number.Maximal)
	})
}

func TestParserBufferGrowth(t *testing.T) {
	cfg := config.Default()
	p, buf, requests := getParser(cfg, 32)

	_, err := feed(p, buf, "POST /grow?x=1 HTTP/1.1\r\nContent-Length: 300\r\n\r\n")
	require.NoError(t, err)
	capacity := buf.Cap()

	body := uniuri.NewLen(300)
	_, err = feed(p, buf, body)
	require.NoError(t, err)
	require.Greater(t, buf.Cap(), capacity)
	require.Len(t, *requests, 1)
	require.Equal(t, "/grow?x=1", (*requests)[0].URI)
	require.Equal(t, "x=1", (*requests)[0].Query)
	require.Equal(t, body, (*requests)[0].Body)
}

func TestParserContentLength(t *testing.T) {
	cfg := config.Default()

	for _, tc := range []struct {
		Value string
		Err   error
	}{
		{"100", nil},
		{"1", nil},
		{"-5", status.ErrBadContentLength},
		{"0", status.ErrBadContentLength},
		{"999999999999", status.ErrBadContentLength},
		{"abc", status.ErrBadContentLength},
	} {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "POST / HTTP/1.1\r\nContent-Length: "+tc.Value+"\r\n\r\n")
		if tc.Err != nil {
			require.ErrorIs(t, err, tc.Err, tc.Value)
			continue
		}

		require.NoError(t, err, tc.Value)
		require.Empty(t, *requests)
		require.Equal(t, eBody, p.state)
	}

	t.Run("above the configured maximum", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 10
		p, buf, _ := getParser(cfg, 64)
		_, err := feed(p, buf, "POST / HTTP/1.1\r\nContent-Length: 11\r\n")
		require.ErrorIs(t, err, status.ErrBadContentLength)
	})

	t.Run("missing", func(t *testing.T) {
		p, buf, _ := getParser(cfg, 64)
		_, err := feed(p, buf, "POST / HTTP/1.1\r\nHost: x\r\n\r\n")
		require.ErrorIs(t, err, status.ErrLengthRequired)
	})

	t.Run("ignored in GET", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, "GET / HTTP/1.1\r\nContent-Length: -5\r\n\r\n")
		require.NoError(t, err)
		require.Len(t, *requests, 1)
	})
}

func TestParserMalformed(t *testing.T) {
	cfg := config.Default()

	for _, tc := range []struct {
		Name string
		Raw  string
		Err  error
	}{
		{"unsupported method", "PUT / HTTP/1.1\r\n\r\n", status.ErrBadMethod},
		{"lowercase method", "get / HTTP/1.1\r\n\r\n", status.ErrBadMethod},
		{"no space after method", "GET/ HTTP/1.1\r\n\r\n", status.ErrBadMethod},
		{"path without slash", "GET index HTTP/1.1\r\n\r\n", status.ErrMalformedLine},
		{"CR before space", "GET /index\r\n\r\n", status.ErrMalformedLine},
		{"LF before space", "GET /index\n\n", status.ErrMalformedLine},
		{"NUL in path", "GET /in\x00dex HTTP/1.1\r\n\r\n", status.ErrMalformedLine},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			p, buf, requests := getParser(cfg, 64)
			_, err := feed(p, buf, tc.Raw)
			require.ErrorIs(t, err, tc.Err)
			require.Empty(t, *requests)

			// the parser must stay failed and interpret nothing anymore
			_, err = feed(p, buf, "GET / HTTP/1.1\r\n\r\n")
			require.ErrorIs(t, err, tc.Err)
			require.Empty(t, *requests)
		})
	}

	t.Run("malformed header lines are dropped", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\n" +
			"NoColon\r\n" +
			" Leading: space\r\n" +
			"Tight:value\r\n" +
			strings.Repeat("k", 64) + ": too long\r\n" +
			strings.Repeat("k", 63) + ": fits\r\n" +
			"Good: one\r\n" +
			"\r\n"
		p, buf, requests := getParser(cfg, 64)
		_, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		require.Equal(t, []headers.Line{
			{Key: strings.Repeat("k", 63), Value: "fits"},
			{Key: "Good", Value: "one"},
		}, (*requests)[0].Headers)
	})
}

func TestParserWebSocket(t *testing.T) {
	cfg := config.Default()

	t.Run("legacy handshake", func(t *testing.T) {
		raw := "GET /ws HTTP/1.1\r\n" +
			"Host: example.com\r\n" +
			"Upgrade: WebSocket\r\n" +
			"Sec-WebSocket-Key1: 4 @1  46546xW%0l 1 5\r\n" +
			"Sec-WebSocket-Key2: 12998 5 Y3 1  .P00\r\n" +
			"\r\n" +
			"^n:ds[4U" +
			"\x00frame\xff"

		for n := 1; n <= len(raw); n++ {
			p, buf, requests := getParser(cfg, 16)
			state, err := feedPartially(p, buf, raw, n)
			require.NoError(t, err, n)
			require.Len(t, *requests, 1, n)

			request := (*requests)[0]
			require.Equal(t, method.GETWebSocket, request.Method)
			require.Equal(t, proto.Legacy, request.WebSocket)
			require.Equal(t, "^n:ds[4U", request.Body)
			require.Equal(t, "/ws", request.URI)

			// frame bytes are never consumed as HTTP
			require.Equal(t, "\x00frame\xff", string(buf.Bytes()), n)
			if n == len(raw) {
				require.Equal(t, Upgraded, state)
			}
		}
	})

	t.Run("legacy key waits for 8 bytes", func(t *testing.T) {
		p, buf, requests := getParser(cfg, 64)
		state, err := feed(p, buf, "GET / HTTP/1.1\r\nSec-WebSocket-Key1: 1 2\r\n\r\n1234567")
		require.NoError(t, err)
		require.Equal(t, Pending, state)
		require.Empty(t, *requests)

		state, err = feed(p, buf, "8")
		require.NoError(t, err)
		require.Equal(t, Upgraded, state)
		require.Len(t, *requests, 1)
		require.Zero(t, buf.Len())
	})

	t.Run("draft handshakes", func(t *testing.T) {
		for _, tc := range []struct {
			Version string
			Want    proto.WebSocket
		}{
			{"6", proto.Draft06},
			{"7", proto.Draft07},
			{"8", proto.Draft07},
		} {
			raw := "GET /chat HTTP/1.1\r\n" +
				"Upgrade: websocket\r\n" +
				"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
				"Sec-WebSocket-Version: " + tc.Version + "\r\n" +
				"\r\n"
			p, buf, requests := getParser(cfg, 64)
			state, err := feed(p, buf, raw)
			require.NoError(t, err)
			require.Equal(t, Upgraded, state)
			require.Len(t, *requests, 1)
			require.Equal(t, method.GET, (*requests)[0].Method)
			require.Equal(t, tc.Want, (*requests)[0].WebSocket)
		}
	})

	t.Run("unsupported version stays a plain request", func(t *testing.T) {
		raw := "GET /chat HTTP/1.1\r\n" +
			"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
			"Sec-WebSocket-Version: 13\r\n" +
			"\r\n" +
			"GET /next HTTP/1.1\r\n\r\n"
		p, buf, requests := getParser(cfg, 64)
		state, err := feed(p, buf, raw)
		require.NoError(t, err)
		require.Equal(t, Pending, state)
		require.Len(t, *requests, 2)
		require.Equal(t, proto.None, (*requests)[0].WebSocket)
	})
}

func BenchmarkParser(b *testing.B) {
	cfg := config.Default()

	bench := func(raw []byte) func(b *testing.B) {
		return func(b *testing.B) {
			p, buf, _ := getParser(cfg, 4096)
			p.onReady = func(*http.Request) {}
			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				buf.Append(raw)
				_, _ = p.Parse()
			}
		}
	}

	b.Run("long uri", bench(requestgen.Generate(strings.Repeat("a", 500), requestgen.Headers(10))))
	b.Run("5 headers", bench(requestgen.Generate("", requestgen.Headers(5))))
	b.Run("30 headers", bench(requestgen.Generate("", requestgen.Headers(30))))
	b.Run("POST", bench(requestgen.GeneratePOST("publish", requestgen.Headers(5), "Hello, world!")))
}
