package pocsag

// Message is one decoded pager message emitted when the receiver flushes
// its pending address/function/payload accumulator.
type Message struct {
	// Address is the reconstructed 21-bit RIC. Valid only if HasAddress.
	Address uint32
	// Function is the 2-bit function code. Valid only if HasFunction.
	Function    uint8
	HasAddress  bool
	HasFunction bool

	// NumNibbles is how many nibbles were accumulated before this flush.
	NumNibbles int
	// Payload is NumNibbles rendered through the formatter selected by
	// Function (numeric, alphanumeric, or binary).
	Payload string

	// Sync reports whether the message was flushed while in sync. The
	// receiver flushes only on an idle word, a new address codeword or an
	// over-long message, all while synced; it does not flush at the end of
	// a batch or on Close, so every emitted message has Sync set.
	Sync bool
}

// Sink receives the messages the receiver flushes that pass the
// Config.ShowPartialDecodes/PruneEmpty filters, which are applied before
// Sink.Emit is called. A message with neither an address nor a function
// is never emitted.
type Sink interface {
	Emit(Message)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Message)

// Emit implements Sink.
func (f SinkFunc) Emit(m Message) { f(m) }

// CollectSink is a Sink that appends every emitted message to a slice, for
// tests and small batch jobs.
type CollectSink struct {
	Messages []Message
}

// Emit implements Sink.
func (c *CollectSink) Emit(m Message) {
	c.Messages = append(c.Messages, m)
}
