package websocket

import (
	"errors"

	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/http/proto"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/pushwire/internal/buffer"
)

// Reply writes control frames back to the peer.
type Reply func([]byte) error

// OnMessage receives the payload of every data frame. The payload points into the
// connection buffer and is valid only until the callback returns.
type OnMessage func([]byte)

type step uint8

const (
	stepKey step = iota
	stepStart
	stepLength
	stepShortLength
	stepExtendedLength
	stepData
)

// opcodes describes the control frames of a draft.
type opcodes struct {
	close, ping, pong byte
	pongStart         byte
	closeFrame        []byte
}

var (
	draft06Opcodes = opcodes{
		close:      0x1,
		ping:       0x2,
		pong:       0x3,
		pongStart:  0x83,
		closeFrame: []byte{0x81, 0x00},
	}
	draft07Opcodes = opcodes{
		close:      0x8,
		ping:       0x9,
		pong:       0xA,
		pongStart:  0x8A,
		closeFrame: []byte{0x88, 0x00},
	}
)

// Parser decodes the frames of a single connection out of its buffer. As the http1
// parser does, it keeps offsets only, so the buffer may grow between calls. Consumed
// frames are discarded from the buffer as soon as they're dispatched.
type Parser struct {
	version     proto.WebSocket
	buf         *buffer.Buffer
	maxBuffered int
	reply       Reply
	onMessage   OnMessage

	step step
	// offset is the next byte to be processed.
	offset int
	// framePos is the amount of bytes of the current frame already processed.
	framePos int
	// dataPos is where the payload of the current frame starts.
	dataPos   int
	remaining uint32
	header    Header
	key       Key
	err       error
	scratch   []byte
}

func NewParser(
	version proto.WebSocket, buf *buffer.Buffer, cfg config.WebSocket, reply Reply, onMessage OnMessage,
) *Parser {
	p := &Parser{
		version:     version,
		buf:         buf,
		maxBuffered: cfg.MaxBuffered,
		reply:       reply,
		onMessage:   onMessage,
	}
	p.resetFrame()

	return p
}

// Parse decodes every complete frame in the buffer. ErrUnmaskedFrame leaves the parser
// where it stopped, so the same error is returned until the buffer overflows. Every
// other error is final.
func (p *Parser) Parse() error {
	if p.err != nil {
		return p.err
	}

	if p.buf.Len() > p.maxBuffered {
		return p.fail(status.ErrBufferOverflow)
	}

	var err error

	switch p.version {
	case proto.Legacy:
		err = p.parseLegacy()
	case proto.Draft06:
		err = p.parseDraft06()
	case proto.Draft07:
		err = p.parseDraft07()
	default:
		err = ErrUnsupportedVersion
	}

	if err != nil && !errors.Is(err, ErrUnmaskedFrame) {
		return p.fail(err)
	}

	return err
}

// dispatch handles a complete frame whose payload ends right before the end offset.
func (p *Parser) dispatch(codes opcodes, end int) error {
	payload := p.buf.Bytes()[p.dataPos:end]

	switch p.header.Opcode() {
	case codes.close:
		if err := p.reply(codes.closeFrame); err != nil {
			return err
		}

		return ErrClosed
	case codes.ping:
		if len(payload) > maxControlPayload {
			if err := p.reply(codes.closeFrame); err != nil {
				return err
			}

			return ErrControlTooLarge
		}

		p.scratch = append(p.scratch[:0], codes.pongStart, byte(len(payload)))
		p.scratch = append(p.scratch, payload...)

		return p.reply(p.scratch)
	case codes.pong:
	default:
		p.onMessage(payload)
	}

	return nil
}

// endFrame drops everything up to the end offset from the buffer and prepares the
// parser to the next frame.
func (p *Parser) endFrame(end int) {
	p.buf.Discard(end)
	p.offset = 0
	p.resetFrame()
}

func (p *Parser) resetFrame() {
	p.step = stepStart
	if p.version == proto.Draft06 {
		p.step = stepKey
	}

	p.framePos = 0
	p.dataPos = 0
	p.remaining = 0
	p.header.Reset()
	p.key.Reset()
}

// beginData is called once the byte at the current offset was the last one of the
// frame header.
func (p *Parser) beginData(length uint32) {
	p.remaining = length
	p.dataPos = p.offset + 1
	p.step = stepData
}

func (p *Parser) fail(err error) error {
	p.err = err
	return err
}
