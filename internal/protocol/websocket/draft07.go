package websocket

// parseDraft07 decodes frames laid out as start byte, length, key and payload. Only the
// payload is masked, and the mask bit is mandatory.
func (p *Parser) parseDraft07() error {
	data := p.buf.Bytes()

	for p.offset < len(data) {
		b := data[p.offset]

		switch p.step {
		case stepStart:
			p.header.SetStart(b)
			p.step = stepLength
		case stepLength:
			if b&maskBit == 0 {
				return ErrUnmaskedFrame
			}

			p.length(b)
			if p.step == stepData {
				p.step = stepKey
			}
		case stepShortLength:
			if p.header.PushLength(b, shortLenBytes) {
				p.remaining = uint32(p.header.Length16())
				p.step = stepKey
			}
		case stepExtendedLength:
			if p.header.PushLength(b, longLenBytes) {
				p.remaining = uint32(p.header.Length64())
				p.step = stepKey
			}
		case stepKey:
			if p.key.Push(b) {
				p.beginData(p.remaining)
			}
		case stepData:
			data[p.offset] = b ^ p.key.At(p.offset-p.dataPos)
			p.remaining--
		}

		p.framePos++
		p.offset++

		if p.step == stepData && p.remaining == 0 {
			end := p.offset
			if err := p.dispatch(draft07Opcodes, end); err != nil {
				return err
			}

			p.endFrame(end)
			data = p.buf.Bytes()
		}
	}

	return nil
}
