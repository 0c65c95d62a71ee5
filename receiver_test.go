package pocsag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagercast/pocsag/internal/charset"
)

// pushWord feeds the 32 bits of w through rx.RxBit, MSB first, correcting
// for RxBit's internal NRZ inversion so that the receiver's window ends up
// holding exactly w once all 32 bits have been pushed.
func pushWord(rx *Receiver, w uint32) {
	for i := 0; i < 32; i++ {
		bit := (w >> uint(31-i)) & 1
		rx.RxBit(int(bit ^ 1))
	}
}

func newTestReceiver(t *testing.T, cfg Config) (*Receiver, *CollectSink) {
	t.Helper()
	sink := &CollectSink{}
	cfg.Sink = sink
	rx, err := NewReceiver(cfg)
	require.NoError(t, err)
	return rx, sink
}

func TestNoSyncIgnoresRandomBits(t *testing.T) {
	rx, _ := newTestReceiver(t, Config{})
	pushWord(rx, 0x12345678)
	assert.Equal(t, StateNoSync, rx.State())
	assert.Equal(t, uint64(32), rx.Stats().BitsUnsynced)
}

func TestSyncWordAcquiresSync(t *testing.T) {
	rx, _ := newTestReceiver(t, Config{})
	pushWord(rx, SyncWord)
	assert.Equal(t, StateSync, rx.State())
}

func TestIdleBatchProducesNoMessage(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{})
	pushWord(rx, SyncWord)
	for i := 0; i < 16; i++ {
		pushWord(rx, IdleWord)
	}
	assert.Empty(t, sink.Messages)
	assert.Equal(t, StateNoSync, rx.State())
}

func TestAddressAndAlphanumericMessageRoundTrip(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{})

	const ric = 123456
	addrCW := EncodeAddress(ric, FuncAlphanumeric)
	encoded := Ascii7BitEncoder("HI")
	msgCWs := SplitMessageIntoFrames(encoded)

	words := append([]uint32{addrCW}, msgCWs...)
	for len(words) < 16 {
		words = append(words, IdleWord)
	}

	pushWord(rx, SyncWord)
	for _, w := range words {
		pushWord(rx, w)
	}

	require.Len(t, sink.Messages, 1)
	msg := sink.Messages[0]
	assert.True(t, msg.HasAddress)
	assert.Equal(t, uint32(ric), msg.Address)
	assert.True(t, msg.HasFunction)
	assert.Equal(t, uint8(FuncAlphanumeric), msg.Function)
	assert.Equal(t, "HI", msg.Payload)
	assert.True(t, msg.Sync)
}

func TestNumericMessageRoundTrip(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{})

	const ric = 999888
	addrCW := EncodeAddress(ric, FuncNumeric)
	encoded := NumericBCDEncoder("12345")
	msgCWs := SplitMessageIntoFrames(encoded)

	words := append([]uint32{addrCW}, msgCWs...)
	for len(words) < 16 {
		words = append(words, IdleWord)
	}

	pushWord(rx, SyncWord)
	for _, w := range words {
		pushWord(rx, w)
	}

	require.Len(t, sink.Messages, 1)
	msg := sink.Messages[0]
	assert.Equal(t, uint32(ric), msg.Address)
	// NumericBCDEncoder appends a 0xA terminator nibble (rendered '.') and
	// SplitMessageIntoFrames zero-fills the second codeword (rendered '0').
	assert.Equal(t, "12345.0000", msg.Payload)
}

func TestSingleBitErrorIsCorrected(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{ErrorCorrection: 1})

	const ric = 42000
	addrCW := EncodeAddress(ric, FuncAlphanumeric)
	corrupted := addrCW ^ (1 << 4)
	encoded := Ascii7BitEncoder("OK")
	msgCWs := SplitMessageIntoFrames(encoded)

	words := append([]uint32{corrupted}, msgCWs...)
	for len(words) < 16 {
		words = append(words, IdleWord)
	}

	pushWord(rx, SyncWord)
	for _, w := range words {
		pushWord(rx, w)
	}

	require.Len(t, sink.Messages, 1)
	assert.Equal(t, uint32(ric), sink.Messages[0].Address)
	assert.Equal(t, uint64(1), rx.Stats().Corrected1)
}

func TestUncorrectableWordIsNotSilentlyAccepted(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{ErrorCorrection: 0})

	const ric = 42000
	addrCW := EncodeAddress(ric, FuncAlphanumeric)
	corrupted := addrCW ^ (1 << 4)

	words := []uint32{corrupted}
	for len(words) < 16 {
		words = append(words, IdleWord)
	}

	pushWord(rx, SyncWord)
	for _, w := range words {
		pushWord(rx, w)
	}

	assert.Empty(t, sink.Messages)
	assert.Equal(t, uint64(1), rx.Stats().Uncorrected)
}

func TestMidBatchSyncWordResets(t *testing.T) {
	rx, _ := newTestReceiver(t, Config{})
	pushWord(rx, SyncWord)
	pushWord(rx, IdleWord)
	pushWord(rx, SyncWord) // re-sync mid-batch
	assert.Equal(t, StateSync, rx.State())
}

func TestCloseDoesNotFlushPendingMessage(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{})

	const ric = 7
	addrCW := EncodeAddress(ric, FuncAlphanumeric)
	encoded := Ascii7BitEncoder("INCOMPLETE")
	msgCWs := SplitMessageIntoFrames(encoded)

	words := append([]uint32{addrCW}, msgCWs...)
	for len(words) < 16 {
		words = append(words, IdleWord)
	}
	// Drop the trailing idle padding so the message never gets a
	// terminating idle word and the batch never completes.
	words = words[:len(msgCWs)+1]

	pushWord(rx, SyncWord)
	for _, w := range words {
		pushWord(rx, w)
	}

	require.NoError(t, rx.Close())
	assert.Empty(t, sink.Messages)
}

func TestInvertedInputDecodesWhenConfigured(t *testing.T) {
	rx, sink := newTestReceiver(t, Config{InvertInput: true})

	// EncodeAddress is a port of the (non-goal) encode side and
	// does not place the address codeword in the frame matching addr&7, so
	// use an address whose low 3 bits are already 0 to round-trip cleanly
	// through frame 0.
	const ric = 56
	addrCW := EncodeAddress(ric, FuncAlphanumeric)
	encoded := Ascii7BitEncoder("HI")
	msgCWs := SplitMessageIntoFrames(encoded)

	words := append([]uint32{addrCW}, msgCWs...)
	for len(words) < 16 {
		words = append(words, IdleWord)
	}

	// With InvertInput set, the receiver complements its window before
	// sync/state dispatch, so feed the complement of each word to land on
	// the same decode as the non-inverted case.
	pushWord(rx, ^uint32(SyncWord))
	for _, w := range words {
		pushWord(rx, ^w)
	}

	require.Len(t, sink.Messages, 1)
	assert.Equal(t, uint32(ric), sink.Messages[0].Address)
}

func TestCharsetVariantSelectsNationalOverlay(t *testing.T) {
	rx, err := NewReceiver(Config{Charset: charset.DE, CharsetOutput: charset.UTF8})
	require.NoError(t, err)
	assert.Equal(t, "ä", rx.charTable.Translate(0x7b))
}

func TestInvalidCharsetFallsBackToUS(t *testing.T) {
	rx, err := NewReceiver(Config{Charset: charset.Variant("zz")})
	require.NoError(t, err)
	assert.Equal(t, "A", rx.charTable.Translate('A'))
}

func TestSuccessRate(t *testing.T) {
	rx, _ := newTestReceiver(t, Config{})
	pushWord(rx, SyncWord)
	pushWord(rx, IdleWord)
	rate := rx.Stats().SuccessRate()
	assert.Greater(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 100.0)
}
