package pocsag

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// Audio constants - from bin2audio.c
	BaudRate512  = 512
	BaudRate1200 = 1200
	BaudRate2400 = 2400

	// BaudRate is the original single-rate constant, kept for callers
	// that never needed anything but the common case.
	BaudRate = BaudRate1200

	SampleRate    = 48000
	BitsPerSample = 16
	NumChannels   = 1
)

var (
	SymbolHigh = int16(-12287) // bit 1 (0xD001 as signed)
	SymbolLow  = int16(12287)  // bit 0 (0x2FFF as signed)
)

// ConvertToAudio converts POCSAG bytes to WAV audio at the original
// hardcoded 1200 baud - exact port from bin2audio.c.
func ConvertToAudio(pocsagData []byte) []byte {
	return ConvertToAudioWithBaudRate(pocsagData, BaudRate1200)
}

// ConvertToAudioWithBaudRate is ConvertToAudio generalized to any of the
// three standard POCSAG rates.
func ConvertToAudioWithBaudRate(pocsagData []byte, baudRate int) []byte {
	samplesPerSymbol := SampleRate / baudRate

	// Calculate total samples
	numBits := len(pocsagData) * 8
	numSamples := numBits * samplesPerSymbol

	// Audio data
	audioData := make([]int16, numSamples)
	sampleIdx := 0

	// Process each byte
	for _, b := range pocsagData {
		// Process each bit (MSB first)
		for i := 7; i >= 0; i-- {
			bit := (b >> i) & 1
			var sample int16

			if bit == 1 {
				sample = int16(SymbolHigh) // negative value
			} else {
				sample = int16(SymbolLow) // positive value
			}

			// Repeat sample for baud rate
			for j := 0; j < samplesPerSymbol; j++ {
				audioData[sampleIdx] = sample
				sampleIdx++
			}
		}
	}

	// Create WAV file
	return createWAVFile(audioData)
}

func createWAVFile(samples []int16) []byte {
	var buf bytes.Buffer

	dataSize := uint32(len(samples) * 2)
	fileSize := 36 + dataSize
	byteRate := uint32(SampleRate * NumChannels * BitsPerSample / 8)
	blockAlign := uint16(16) // Match bin2audio.c CHUNK_SIZE (not technically correct but PDW expects this)

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, fileSize)
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))            // chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))             // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(NumChannels))   // channels
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))    // sample rate
	binary.Write(&buf, binary.LittleEndian, byteRate)              // byte rate
	binary.Write(&buf, binary.LittleEndian, blockAlign)            // block align
	binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample)) // bits per sample

	// data chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // bin2audio.c writes 0 here (placeholder)

	// Write samples
	for _, sample := range samples {
		binary.Write(&buf, binary.LittleEndian, sample)
	}

	return buf.Bytes()
}

// DemodulateBits recovers hard 0/1 bit decisions from 16-bit PCM WAV audio
// at the given baud rate by averaging each symbol period and slicing on
// sign: a positive average gives 1, otherwise 0. ConvertToAudioWithBaudRate
// writes a 1 bit as a negative sample, so the result is the complement of
// the encoded bits, which is the polarity Receiver.RxBit expects. Real
// FM/FSK demodulation from an RF capture is out of scope (see
// SPEC_FULL.md Non-goals); this is the bit source DecodeFromAudioWithBaudRate
// and the CLI tools use when working from a WAV file produced by
// ConvertToAudioWithBaudRate or a compatible encoder.
func DemodulateBits(wavData []byte, baudRate int) ([]int, error) {
	if len(wavData) < 44 {
		return nil, fmt.Errorf("pocsag: WAV data too short: %d bytes", len(wavData))
	}
	if string(wavData[0:4]) != "RIFF" || string(wavData[8:12]) != "WAVE" {
		return nil, fmt.Errorf("pocsag: not a WAV file")
	}

	samplesPerSymbol := SampleRate / baudRate
	if samplesPerSymbol <= 0 {
		return nil, fmt.Errorf("pocsag: invalid baud rate %d", baudRate)
	}

	samples := make([]int16, 0, (len(wavData)-44)/2)
	for i := 44; i+1 < len(wavData); i += 2 {
		samples = append(samples, int16(binary.LittleEndian.Uint16(wavData[i:])))
	}

	bits := make([]int, 0, len(samples)/samplesPerSymbol)
	for i := 0; i+samplesPerSymbol <= len(samples); i += samplesPerSymbol {
		var sum int64
		for j := 0; j < samplesPerSymbol; j++ {
			sum += int64(samples[i+j])
		}
		bit := 0
		if sum > 0 {
			bit = 1
		}
		bits = append(bits, bit)
	}
	return bits, nil
}
