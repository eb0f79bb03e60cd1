// Package wire implements the Nocturn's quasi-MIDI wire protocol: three
// byte control change messages with running status compression, sent as an
// unframed byte stream over USB interrupt transfers.
package wire

const (
	// StatusMask selects the status nibble of a status byte.
	StatusMask = 0xf0
	// ChannelMask selects the channel nibble of a status byte.
	ChannelMask = 0x0f

	// StatusControlChange is the only status the Nocturn is known to emit.
	StatusControlChange = 0xb0
)

// Message is one complete decoded message.
type Message struct {
	Status  byte // masked status nibble, e.g. 0xb0
	Channel byte
	Data1   byte
	Data2   byte
}

type decodeState int

const (
	awaitData1 decodeState = iota
	awaitData2
)

// Decoder assembles Messages from the raw byte stream. It applies running
// status: a status byte is cached and reused for consecutive data-only
// messages until the next status byte arrives. Decoder state survives
// transfer boundaries, so a message split across two reads decodes the
// same as a contiguous one.
//
// The zero value is ready to use.
type Decoder struct {
	state       decodeState
	status      byte
	channel     byte
	data1       byte
	statusKnown bool
}

// Feed consumes p and returns the messages it completes, in arrival order.
// Data bytes received before any status byte are discarded.
func (d *Decoder) Feed(p []byte) []Message {
	var msgs []Message
	for _, b := range p {
		if b&0x80 != 0 {
			// A status byte always resets framing, even mid-message.
			d.status = b & StatusMask
			d.channel = b & ChannelMask
			d.state = awaitData1
			d.statusKnown = true
			continue
		}
		switch {
		case !d.statusKnown:
			// Orphan data byte, nothing to attach it to.
		case d.state == awaitData1:
			d.data1 = b
			d.state = awaitData2
		default:
			msgs = append(msgs, Message{
				Status:  d.status,
				Channel: d.channel,
				Data1:   d.data1,
				Data2:   b,
			})
			// Status, channel and data1 stay cached: the device sends
			// bare data byte pairs for repeated messages of one status.
			d.state = awaitData1
		}
	}
	return msgs
}

// Reset discards any cached status and partial message.
func (d *Decoder) Reset() {
	*d = Decoder{}
}
