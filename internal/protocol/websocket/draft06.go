package websocket

// parseDraft06 decodes frames laid out as key, start byte, length and payload. Everything
// after the key is masked, including the header fields.
func (p *Parser) parseDraft06() error {
	data := p.buf.Bytes()

	for p.offset < len(data) {
		b := data[p.offset]
		if p.step != stepKey {
			b ^= p.key.At(p.framePos - keyLength)
			data[p.offset] = b
		}

		switch p.step {
		case stepKey:
			if p.key.Push(b) {
				p.step = stepStart
			}
		case stepStart:
			p.header.SetStart(b)
			p.step = stepLength
		case stepLength:
			p.length(b)
		case stepShortLength:
			if p.header.PushLength(b, shortLenBytes) {
				p.beginData(uint32(p.header.Length16()))
			}
		case stepExtendedLength:
			if p.header.PushLength(b, longLenBytes) {
				p.beginData(uint32(p.header.Length64()))
			}
		case stepData:
			p.remaining--
		}

		p.framePos++
		p.offset++

		if p.step == stepData && p.remaining == 0 {
			end := p.offset
			if err := p.dispatch(draft06Opcodes, end); err != nil {
				return err
			}

			p.endFrame(end)
			data = p.buf.Bytes()
		}
	}

	return nil
}

// length interprets the first length byte. For drafts where the key follows the length,
// the caller switches to the key afterwards.
func (p *Parser) length(b byte) {
	switch code := b & lengthMask; code {
	case lengthShort:
		p.step = stepShortLength
	case lengthLong:
		p.step = stepExtendedLength
	default:
		p.beginData(uint32(code))
	}
}
