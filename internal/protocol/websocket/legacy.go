package websocket

import "bytes"

const (
	legacyStart byte = 0x00
	legacyEnd   byte = 0xFF
)

var legacyCloseFrame = []byte{legacyEnd, legacyStart}

// parseLegacy handles 0x00-prefixed and 0xFF-terminated frames. The frame is being
// scanned for the terminator starting from where the previous call stopped.
func (p *Parser) parseLegacy() error {
	for p.offset < p.buf.Len() {
		data := p.buf.Bytes()

		if p.step == stepStart {
			switch data[p.offset] {
			case legacyStart:
				p.offset++
				p.dataPos = p.offset
				p.step = stepData
			case legacyEnd:
				if p.offset+1 == len(data) {
					return nil
				}

				if data[p.offset+1] != legacyStart {
					return ErrMalformedFrame
				}

				if err := p.reply(legacyCloseFrame); err != nil {
					return err
				}

				return ErrClosed
			default:
				return ErrMalformedFrame
			}

			continue
		}

		end := bytes.IndexByte(data[p.offset:], legacyEnd)
		if end == -1 {
			p.offset = len(data)
			return nil
		}

		end += p.offset
		p.onMessage(data[p.dataPos:end])
		p.endFrame(end + 1)
	}

	return nil
}
