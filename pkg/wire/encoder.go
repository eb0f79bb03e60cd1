package wire

// ControlChange encodes a single uncompressed control change message.
func ControlChange(channel, controller, value byte) [3]byte {
	return [3]byte{
		StatusControlChange | channel&ChannelMask,
		controller & 0x7f,
		value & 0x7f,
	}
}

// Writer accumulates an outbound payload of control change messages,
// omitting repeated status bytes. This is the encoding the device expects
// for its multi-message LED setup payloads.
type Writer struct {
	buf         []byte
	status      byte
	statusKnown bool
}

// ControlChange appends one message, eliding the status byte when it
// matches the previously written one.
func (w *Writer) ControlChange(channel, controller, value byte) {
	status := byte(StatusControlChange) | channel&ChannelMask
	if !w.statusKnown || status != w.status {
		w.buf = append(w.buf, status)
		w.status = status
		w.statusKnown = true
	}
	w.buf = append(w.buf, controller&0x7f, value&0x7f)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}
