package pocsag

import (
	"fmt"
	"io"
)

// DecodedMessage is a flattened view of Message kept for callers that
// only care about address/function/payload, not sync/nibble bookkeeping.
type DecodedMessage struct {
	Address   uint32
	Function  uint8
	Message   string
	IsNumeric bool
}

// String formats a decoded message for display.
func (m *DecodedMessage) String() string {
	msgType := "ALPHA"
	if m.IsNumeric {
		msgType = "NUMERIC"
	}
	return fmt.Sprintf("Address: %7d  Function: %d  %-7s  Message: %s",
		m.Address, m.Function, msgType, m.Message)
}

// DecodeFromAudio decodes POCSAG from 1200-baud WAV audio data.
func DecodeFromAudio(wavData []byte) ([]DecodedMessage, error) {
	return DecodeFromAudioWithBaudRate(wavData, BaudRate1200)
}

// DecodeFromAudioWithBaudRate demodulates wavData at baudRate and drives
// the recovered bits through a Receiver, exactly as a live bitstream
// would be. It is the audio-file counterpart of DecodeFromBinary.
func DecodeFromAudioWithBaudRate(wavData []byte, baudRate int) ([]DecodedMessage, error) {
	bits, err := DemodulateBits(wavData, baudRate)
	if err != nil {
		return nil, err
	}
	return decodeBits(bits)
}

// DecodeFromBinary decodes POCSAG from a raw MSB-first bitstream packed
// 8 bits per byte, such as the output of CreatePOCSAGBurst. Each bit is
// complemented before it reaches Receiver.RxBit, which complements its
// input again.
func DecodeFromBinary(data []byte) ([]DecodedMessage, error) {
	bits := make([]int, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int((b>>uint(i))&1)^1)
		}
	}
	return decodeBits(bits)
}

// decodeBits feeds a hard-decision bitstream through a Receiver and
// flattens the resulting messages, dropping partial/empty decodes the
// same way multimon-ng's default command-line filters do.
func decodeBits(bits []int) ([]DecodedMessage, error) {
	sink := &CollectSink{}
	rx, err := NewReceiver(Config{
		ErrorCorrection: 2,
		Sink:            sink,
	})
	if err != nil {
		return nil, fmt.Errorf("pocsag: creating receiver: %w", err)
	}
	for _, bit := range bits {
		rx.RxBit(bit)
	}
	if err := rx.Close(); err != nil {
		return nil, err
	}

	messages := make([]DecodedMessage, 0, len(sink.Messages))
	for _, msg := range sink.Messages {
		if !msg.HasAddress || !msg.HasFunction || msg.NumNibbles == 0 {
			continue
		}
		messages = append(messages, DecodedMessage{
			Address:   msg.Address,
			Function:  msg.Function,
			Message:   msg.Payload,
			IsNumeric: msg.Function == FuncNumeric,
		})
	}
	return messages, nil
}

// DecodeReader reads and decodes POCSAG from an io.Reader carrying WAV
// audio at 1200 baud.
func DecodeReader(r io.Reader) ([]DecodedMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeFromAudio(data)
}
