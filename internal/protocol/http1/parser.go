package http1

import (
	"bytes"
	"strconv"

	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/headers"
	"github.com/indigo-web/pushwire/http/method"
	"github.com/indigo-web/pushwire/http/proto"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/pushwire/internal/buffer"
	"github.com/indigo-web/pushwire/internal/urldecode"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// State is returned by the parser to tell the caller what to do with the connection next.
type State uint8

const (
	// Pending means all the complete requests were processed and the parser is waiting
	// for more data.
	Pending State = iota
	// Upgraded means a websocket handshake request was completed. Bytes left in the
	// buffer belong to the frame parser.
	Upgraded
)

type parserState uint8

const (
	eRequestLine parserState = iota
	eHeaders
	eBody
)

// legacyKeyLength is the amount of raw key bytes following the headers of a legacy
// websocket handshake.
const legacyKeyLength = 8

const (
	contentLengthPrefix = "Content-Length: "
	wsKey1Prefix        = "Sec-WebSocket-Key1: "
	wsKeyPrefix         = "Sec-WebSocket-Key: "
	wsVersionPrefix     = "Sec-WebSocket-Version: "
)

type OnReady func(*http.Request)

// Parser consumes the connection buffer and calls onReady once per complete request.
// All the positions it keeps between calls are offsets from the beginning of the buffer,
// so the buffer is free to move its data between calls.
type Parser struct {
	cfg     *config.Config
	buf     *buffer.Buffer
	request *http.Request
	onReady OnReady
	state   parserState
	err     error
	// pos is the amount of bytes already consumed.
	pos int
	// uriStart and uriEnd delimit the request target. queryMark points at the first
	// '?' inside of it, or is -1.
	uriStart, uriEnd, queryMark int
	bodyStart                   int
	read                        int
	contentLength               int
	draftKey                    bool
	draftVersion                proto.WebSocket
}

func NewParser(cfg *config.Config, buf *buffer.Buffer, request *http.Request, onReady OnReady) *Parser {
	return &Parser{
		cfg:       cfg,
		buf:       buf,
		request:   request,
		onReady:   onReady,
		queryMark: -1,
	}
}

// Parse advances through the buffered data as far as it's possible. It must be called
// every time new data is appended to the buffer. Once an error is returned, the parser
// stays failed and returns it on every call.
func (p *Parser) Parse() (State, error) {
	if p.err != nil {
		return Pending, p.err
	}

	for {
		data := p.buf.Bytes()

		switch p.state {
		case eRequestLine:
			lf := bytes.IndexByte(data[p.pos:], '\n')
			if lf == -1 {
				return Pending, nil
			}

			if err := p.requestLine(data[p.pos : p.pos+lf+1]); err != nil {
				return Pending, p.fail(err)
			}

			p.pos += lf + 1
		case eHeaders:
			lf := bytes.IndexByte(data[p.pos:], '\n')
			if lf == -1 {
				return Pending, nil
			}

			line := data[p.pos : p.pos+lf]
			next := p.pos + lf + 1

			if len(line) > 1 || (len(line) == 1 && line[0] != '\r') {
				if err := p.headerLine(stripCR(line)); err != nil {
					return Pending, p.fail(err)
				}

				p.pos = next
				continue
			}

			switch p.request.Method {
			case method.GET:
				if p.draftKey {
					p.request.WebSocket = p.draftVersion
				}

				if p.complete(next) {
					return Upgraded, nil
				}
			case method.GETWebSocket:
				p.contentLength = legacyKeyLength
				p.bodyStart, p.pos = next, next
				p.state = eBody
			case method.POST:
				if p.contentLength == 0 {
					return Pending, p.fail(status.ErrLengthRequired)
				}

				p.bodyStart, p.pos = next, next
				p.state = eBody
			}
		case eBody:
			p.read = len(data) - p.bodyStart
			p.pos = len(data)
			if p.read < p.contentLength {
				return Pending, nil
			}

			end := p.bodyStart + p.contentLength
			p.request.Body = data[p.bodyStart:end]
			if p.complete(end) {
				return Upgraded, nil
			}
		}
	}
}

func (p *Parser) requestLine(line []byte) error {
	m, offset := method.FromRequestLine(line)
	if m == method.Unknown {
		return status.ErrBadMethod
	}

	if line[offset] != '/' {
		return status.ErrMalformedLine
	}

	queryMark := -1

	for i := offset + 1; i < len(line); i++ {
		switch line[i] {
		case ' ':
			p.request.Method = m
			p.uriStart, p.uriEnd = p.pos+offset, p.pos+i
			if queryMark != -1 {
				p.queryMark = p.pos + queryMark
			}

			p.state = eHeaders
			return nil
		case '?':
			if queryMark == -1 {
				queryMark = i
			}
		case '\r', '\n', 0:
			return status.ErrMalformedLine
		}
	}

	// unreachable as long as the line is terminated by \n
	return status.ErrMalformedLine
}

func (p *Parser) headerLine(line []byte) error {
	request := p.request

	// a malformed header line is not a reason to fail the whole request
	if hl, err := headers.ParseLine(line, p.cfg.Headers.MaxKeyLength); err == nil {
		request.Headers.Add(hl)

		if strcomp.EqualFold(hl.Key, "Host") {
			request.Host = hl.Value
		}
	}

	switch request.Method {
	case method.POST:
		if hasPrefixFold(line, contentLengthPrefix) {
			value := bytes.TrimSpace(line[len(contentLengthPrefix):])
			length, err := strconv.Atoi(uf.B2S(value))
			if err != nil || length < 1 || length > p.cfg.Body.MaxSize {
				return status.ErrBadContentLength
			}

			p.contentLength = length
		}
	case method.GET:
		switch {
		case hasPrefixFold(line, wsKey1Prefix):
			request.Method = method.GETWebSocket
			request.WebSocket = proto.Legacy
		case hasPrefixFold(line, wsKeyPrefix):
			p.draftKey = true
		case hasPrefixFold(line, wsVersionPrefix):
			p.draftVersion = proto.FromVersion(uf.B2S(line[len(wsVersionPrefix):]))
		}
	}

	return nil
}

// complete finalizes the request, which ends right before the end offset, and prepares
// the parser to the next one. Returns true if the connection must leave HTTP mode.
func (p *Parser) complete(end int) (upgraded bool) {
	request := p.request
	request.ContentLength = p.contentLength
	p.decodeURI()
	p.onReady(request)

	upgraded = request.IsUpgrade()
	p.buf.Discard(end)
	request.Reset()
	p.reset()

	return upgraded
}

// decodeURI decodes the path and the query separately in place, and then glues them
// back together, so the request's URI, Path and Query share the same memory.
func (p *Parser) decodeURI() {
	data := p.buf.Bytes()
	request := p.request

	if p.queryMark == -1 {
		path := urldecode.Decode(data[p.uriStart:p.uriEnd])
		request.URI = uf.B2S(path)
		request.Path = request.URI
		return
	}

	path := urldecode.Decode(data[p.uriStart:p.queryMark])
	query := urldecode.Decode(data[p.queryMark+1 : p.uriEnd])

	mark := p.uriStart + len(path)
	data[mark] = '?'
	n := copy(data[mark+1:], query)
	uri := data[p.uriStart : mark+1+n]

	request.URI = uf.B2S(uri)
	request.Path = uf.B2S(uri[:len(path)])
	request.Query = uf.B2S(uri[len(path)+1:])
}

func (p *Parser) fail(err error) error {
	p.err = err
	return err
}

func (p *Parser) reset() {
	p.state = eRequestLine
	p.pos = 0
	p.uriStart, p.uriEnd, p.queryMark = 0, 0, -1
	p.bodyStart = 0
	p.read = 0
	p.contentLength = 0
	p.draftKey = false
	p.draftVersion = proto.None
}

func hasPrefixFold(line []byte, prefix string) bool {
	return len(line) >= len(prefix) && strcomp.EqualFold(uf.B2S(line[:len(prefix)]), prefix)
}

func stripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}

	return b
}
