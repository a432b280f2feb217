package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// AudioDecoder abstracts the stream properties of a source file, so WAV and MP3 sources
// are probed uniformly.
type AudioDecoder interface {
	// Format returns the channel count and sample rate of the source.
	Format() *audio.Format
	// BitDepth returns the bit depth of the decoded samples (e.g., 16, 24).
	BitDepth() uint16
	// IsFloat returns true if the audio format is floating-point.
	IsFloat() bool
	// Duration returns the total duration of the audio stream.
	Duration() (time.Duration, error)
}

// openDecoder opens path and selects the decoder by file extension.
// The returned file must be closed by the caller.
func openDecoder(path string) (AudioDecoder, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var decoder AudioDecoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		decoder, err = newWavDecoder(file)
	case ".mp3":
		decoder, err = newMp3Decoder(file)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	if err != nil {
		file.Close()

		return nil, nil, err
	}

	return decoder, file, nil
}

// wavDecoderWrapper wraps the go-audio WAV decoder to implement the AudioDecoder interface.
type wavDecoderWrapper struct {
	*wav.Decoder
}

func newWavDecoder(r io.ReadSeeker) (AudioDecoder, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	return &wavDecoderWrapper{Decoder: decoder}, nil
}

func (w *wavDecoderWrapper) BitDepth() uint16 { return w.Decoder.BitDepth }
func (w *wavDecoderWrapper) IsFloat() bool    { return w.Decoder.WavAudioFormat == 3 } // 3 == IEEE float

// mp3DecoderWrapper wraps the go-mp3 decoder to implement the AudioDecoder interface.
type mp3DecoderWrapper struct {
	sampleRate int
	length     int64 // Total decoded size in bytes
}

func newMp3Decoder(r io.Reader) (AudioDecoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	return &mp3DecoderWrapper{
		sampleRate: decoder.SampleRate(),
		length:     decoder.Length(),
	}, nil
}

// Format reports stereo, go-mp3 always decodes to two channels.
func (m *mp3DecoderWrapper) Format() *audio.Format {
	return &audio.Format{NumChannels: 2, SampleRate: m.sampleRate}
}

func (m *mp3DecoderWrapper) BitDepth() uint16 { return 16 }
func (m *mp3DecoderWrapper) IsFloat() bool    { return false }

func (m *mp3DecoderWrapper) Duration() (time.Duration, error) {
	// 2 channels of 16-bit samples.
	const bytesPerFrame = 4
	if m.sampleRate == 0 || m.length < 0 {
		return 0, errors.New("unknown stream length")
	}

	frames := m.length / bytesPerFrame
	seconds := float64(frames) / float64(m.sampleRate)

	return time.Duration(seconds * float64(time.Second)), nil
}
