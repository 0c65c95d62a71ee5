// Package pocsag implements encoding and decoding of the POCSAG radio
// paging protocol, including the layer-2 bit synchronizer, BCH(31,21)
// error corrector, and batch/word state machine ported from
// multimon-ng's pocsag.c.
package pocsag

import (
	"fmt"

	"github.com/pagercast/pocsag/internal/bch"
	"github.com/pagercast/pocsag/internal/charset"
	"github.com/pagercast/pocsag/internal/payload"
	"github.com/pagercast/pocsag/internal/telemetry"
)

// Reserved codewords, reproduced bit-exactly from multimon-ng.
const (
	SyncWord = 0x7CD215D8
	IdleWord = 0x7A89C197
	IdleAlt  = 0x7A89C196

	// messageBit distinguishes message codewords (set) from address
	// codewords (clear).
	messageBit = 0x80000000

	bufferSize = 256
	// nibbleCap mirrors multimon-ng's guard: "numnibbles > sizeof(buffer)*2-5".
	nibbleCap = bufferSize*2 - 5
)

// State is the receiver's sync state. The source's LOSING_SYNC, LOST_SYNC,
// ADDRESS and END_OF_MESSAGE labels are never assigned and are not
// modeled here.
type State int

const (
	StateNoSync State = iota
	StateSync
	StateMessage
)

func (s State) String() string {
	switch s {
	case StateNoSync:
		return "NO_SYNC"
	case StateSync:
		return "SYNC"
	case StateMessage:
		return "MESSAGE"
	default:
		return "UNKNOWN"
	}
}

const unsetField = -1

// Config configures one Receiver instance. Unlike multimon-ng's process-
// global pocsag_invert_input/pocsag_error_correction/... variables, every
// field here is threaded explicitly into NewReceiver.
type Config struct {
	// InvertInput complements the 32-bit window before sync/state
	// dispatch, for receivers whose demodulator delivers inverted bits.
	InvertInput bool

	// ErrorCorrection caps BCH correction effort: 0 none, 1 single-bit,
	// 2 single- and double-bit.
	ErrorCorrection int

	// ShowPartialDecodes, if false, suppresses messages flushed without
	// both an address and a function, or flushed with Sync=false.
	ShowPartialDecodes bool

	// PruneEmpty suppresses messages with zero accumulated nibbles.
	PruneEmpty bool

	// Charset selects the alphanumeric translation table.
	Charset charset.Variant
	// CharsetOutput selects how non-ASCII glyphs in that table render.
	CharsetOutput charset.Output

	// WordlogPath, if non-empty, appends one CSV row per completed
	// codeword (see internal/telemetry.WordLog).
	WordlogPath string
	// DebugPath, if non-empty, receives a free-form debug trace.
	DebugPath string

	// Sink receives each flushed message that passes the filters above. If
	// nil, messages are dropped.
	Sink Sink

	// Name identifies this receiver in trace output (multimon-ng's
	// dem_par->name, e.g. a channel or frequency label).
	Name string
}

type pending struct {
	address    int64
	function   int64
	buffer     [bufferSize]byte
	numNibbles int
}

// Receiver is a single POCSAG layer-2 decoder. It is not safe for
// concurrent use by multiple goroutines; a program decoding several
// streams should construct one Receiver per stream.
type Receiver struct {
	cfg Config

	window        uint32
	state         State
	rxBitIndex    int
	receivedWords int

	pending pending
	stats   Stats

	charTable *charset.Table
	tracer    *telemetry.Tracer
	wordlog   *telemetry.WordLog
}

// NewReceiver constructs a Receiver in the NO_SYNC state with address and
// function unset, matching pocsag_init.
func NewReceiver(cfg Config) (*Receiver, error) {
	if cfg.Charset == "" {
		cfg.Charset = charset.US
	}
	requested := cfg.Charset
	table, charErr := charset.New(cfg.Charset, cfg.CharsetOutput)
	if charErr != nil {
		// pocsag_init_charset reports and falls back to US rather than
		// failing receiver construction.
		cfg.Charset = charset.US
	}

	tracer, err := telemetry.NewTracer(cfg.DebugPath)
	if err != nil {
		return nil, fmt.Errorf("pocsag: debug sink: %w", err)
	}
	wordlog, err := telemetry.NewWordLog(cfg.WordlogPath)
	if err != nil {
		return nil, fmt.Errorf("pocsag: wordlog sink: %w", err)
	}

	r := &Receiver{
		cfg:       cfg,
		state:     StateNoSync,
		charTable: table,
		tracer:    tracer,
		wordlog:   wordlog,
	}
	r.pending.address = unsetField
	r.pending.function = unsetField
	if charErr != nil {
		r.tracer.Debugf("%s: invalid charset %q, falling back to US", cfg.Name, requested)
	}
	r.tracer.Debugf("%s: receiver initialized", cfg.Name)
	return r, nil
}

// RxBit consumes one hard-decision bit (0 or 1). It never blocks on the
// core decode path and never panics; the only I/O on this path is the
// best-effort debug/wordlog sinks, which swallow their own errors.
func (r *Receiver) RxBit(bit int) {
	r.stats.TotalBits++

	r.window = (r.window << 1) | uint32(bit^1)
	window := r.window
	if r.cfg.InvertInput {
		window = ^window
	}
	r.doOneBit(window)
}

func isSync(w uint32) bool { return w == SyncWord }
func isIdle(w uint32) bool { return w == IdleWord || w == IdleAlt }

func (r *Receiver) doOneBit(window uint32) {
	if r.state == StateNoSync {
		if isSync(window) {
			r.tracer.Debugf("acquired sync")
			r.state = StateSync
			r.rxBitIndex = 0
			r.receivedWords = 0
		} else {
			r.stats.BitsUnsynced++
		}
		return
	}

	if isSync(window) {
		r.tracer.Debugf("received sync mid-batch, resetting")
		r.rxBitIndex = 0
		r.receivedWords = 0
		return
	}

	r.stats.BitsSynced++
	r.rxBitIndex = (r.rxBitIndex + 1) % 32
	if r.rxBitIndex != 0 {
		return
	}

	frame := r.receivedWords / 2
	wordInFrame := r.receivedWords % 2
	if err := r.wordlog.Log(frame, wordInFrame, window); err != nil {
		r.tracer.Debugf("wordlog write failed: %v", err)
	}
	r.receivedWords++

	if isIdle(window) {
		r.tracer.Debugf("f%dw%d: idle", frame, wordInFrame)
		if r.pending.numNibbles > 0 {
			r.flush(true)
		}
	} else {
		corrected, result := bch.Repair(window, r.cfg.ErrorCorrection)
		r.updateStats(result)

		if corrected&messageBit == 0 {
			// Address codeword.
			if r.pending.numNibbles > 0 {
				r.flush(true)
			}
			addr := ((corrected >> 10) & 0x1FFFF8) | uint32(frame&7)
			fn := (corrected >> 11) & 3
			r.pending.address = int64(addr)
			r.pending.function = int64(fn)
			r.state = StateMessage
			r.tracer.Debugf("address %d function %d", addr, fn)
		} else {
			// Message codeword.
			r.state = StateMessage
			if r.pending.numNibbles > nibbleCap {
				r.tracer.Debugf("message too long, flushing")
				r.flush(true)
			} else {
				r.appendNibbles((corrected >> 11) & 0xFFFFF)
			}
		}
	}

	if r.receivedWords == 16 {
		r.tracer.Debugf("end of batch")
		r.state = StateNoSync
		r.receivedWords = 0
	}
}

func (r *Receiver) updateStats(result bch.Result) {
	if result == bch.OK {
		return
	}
	r.stats.TotalErrors++
	switch result {
	case bch.Corrected1:
		r.stats.Corrected1++
	case bch.Corrected2:
		r.stats.Corrected2++
	case bch.Fail:
		r.stats.Uncorrected++
	}
}

// appendNibbles packs the five nibbles of a 20-bit message payload into
// the pending buffer, exactly matching multimon-ng's even/odd bp layout.
func (r *Receiver) appendNibbles(data uint32) {
	bp := r.pending.numNibbles / 2
	buf := r.pending.buffer[:]
	if r.pending.numNibbles%2 == 0 {
		buf[bp] = byte(data >> 12)
		buf[bp+1] = byte((data >> 4) & 0xFF)
		buf[bp+2] = byte((data << 4) & 0xF0)
	} else {
		buf[bp] = (buf[bp] & 0xF0) | byte((data>>16)&0xF)
		buf[bp+1] = byte((data >> 8) & 0xFF)
		buf[bp+2] = byte(data & 0xFF)
	}
	r.pending.numNibbles += 5
}

func (r *Receiver) flush(sync bool) {
	msg := Message{
		Sync:       sync,
		NumNibbles: r.pending.numNibbles,
	}
	if r.pending.address != unsetField {
		msg.Address = uint32(r.pending.address)
		msg.HasAddress = true
	}
	if r.pending.function != unsetField {
		msg.Function = uint8(r.pending.function)
		msg.HasFunction = true
	}
	msg.Payload = r.formatPayload()

	r.pending.numNibbles = 0
	r.pending.address = unsetField
	r.pending.function = unsetField

	r.emit(msg)
}

func (r *Receiver) formatPayload() string {
	buf := r.pending.buffer[:]
	n := r.pending.numNibbles
	switch r.pending.function {
	case 0:
		return payload.Numeric(buf, n)
	case 3:
		return payload.Alphanumeric(buf, n, r.charTable)
	default:
		return payload.Binary(buf, n)
	}
}

// emit applies show_partial_decodes/prune_empty filtering and hands the
// message to the configured Sink, mirroring pocsag_printmessage without
// baking display formatting into the core state machine.
func (r *Receiver) emit(msg Message) {
	if !msg.HasAddress && !msg.HasFunction {
		// pocsag_printmessage's inner guard: nothing to report when message
		// words accumulated with neither an address nor a function ever
		// received, regardless of ShowPartialDecodes.
		return
	}
	if !r.cfg.ShowPartialDecodes && (!msg.HasAddress || !msg.HasFunction || !msg.Sync) {
		return
	}
	if r.cfg.PruneEmpty && msg.NumNibbles == 0 {
		return
	}
	if r.cfg.Sink != nil {
		r.cfg.Sink.Emit(msg)
	}
}

// Stats returns a snapshot of the running counters.
func (r *Receiver) Stats() Stats { return r.stats }

// State returns the receiver's current sync state.
func (r *Receiver) State() State { return r.state }

// Close emits final statistics and releases the debug/wordlog sinks. It
// does not flush a pending in-progress message, matching
// pocsag_deinit — see SPEC_FULL.md §1 for the rationale.
func (r *Receiver) Close() error {
	r.tracer.Debugf(
		"stats: total=%d synced=%d unsynced=%d errors=%d corrected1=%d corrected2=%d uncorrected=%d rate=%.2f%%",
		r.stats.TotalBits, r.stats.BitsSynced, r.stats.BitsUnsynced, r.stats.TotalErrors,
		r.stats.Corrected1, r.stats.Corrected2, r.stats.Uncorrected, r.stats.SuccessRate(),
	)
	if err := r.tracer.Close(); err != nil {
		return fmt.Errorf("pocsag: closing debug sink: %w", err)
	}
	if err := r.wordlog.Close(); err != nil {
		return fmt.Errorf("pocsag: closing wordlog sink: %w", err)
	}
	return nil
}
