package hdmi

import "fmt"

// DeepColor is the TMDS-to-pixel clock ratio of the video mode, in percent.
// See deep color definition in HDMI 1.4 specification section 6.5.2.
type DeepColor uint32

const (
	DeepColorNone DeepColor = 100 // 24 bits per pixel
	DeepColor30   DeepColor = 125
	DeepColor36   DeepColor = 150
	DeepColor48   DeepColor = 200
)

// DefaultDeepColor is used until the display side reports its color depth.
const DefaultDeepColor = DeepColorNone

// MaxPixelClock is the largest pixel clock, in kHz, ComputeACR is guaranteed not to overflow for.
const MaxPixelClock = 200000000

// Reference pixel clocks, in kHz, for which 30-bit deep color uses the alternate N values.
const (
	pclk54054 = 54054
	pclk74250 = 74250
)

// ComputeACR returns the N and CTS values for a sample rate in Hz and a pixel clock in kHz.
// CTS = pclk * (N / 128) * deep / (rate / 10), see HDMI 1.3a or 1.4a specifications.
func ComputeACR(rate, pclk uint32, deep DeepColor) (ACR, error) {
	var n uint32

	switch rate {
	case 32000:
		if deep == DeepColor30 && (pclk == pclk54054 || pclk == pclk74250) {
			n = 8192
		} else {
			n = 4096
		}
	case 44100:
		n = 6272
	case 48000:
		if deep == DeepColor30 && (pclk == pclk54054 || pclk == pclk74250) {
			n = 8192
		} else {
			n = 6144
		}
	case 88200:
		n = 12544
	case 96000:
		n = 12288
	case 176400:
		n = 25088
	case 192000:
		n = 24576
	default:
		return ACR{}, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, rate)
	}

	if pclk == 0 {
		return ACR{}, ErrMissingClockReference
	}

	switch deep {
	case 0:
		deep = DefaultDeepColor
	case DeepColorNone, DeepColor30, DeepColor36, DeepColor48:
	default:
		return ACR{}, fmt.Errorf("%w: %d", ErrUnsupportedDeepColor, deep)
	}

	// All products fit in 64 bits for pclk up to MaxPixelClock; the quotient fits in 32.
	cts := uint64(pclk) * uint64(n/128) * uint64(deep) / uint64(rate/10)
	if cts > uint64(^uint32(0)) {
		return ACR{}, fmt.Errorf("CTS overflow for pixel clock %d kHz at %d Hz", pclk, rate)
	}

	return ACR{N: n, CTS: uint32(cts)}, nil
}

// SampleFreqFor returns the channel status sampling frequency code for a rate in Hz.
func SampleFreqFor(rate uint32) (SampleFreq, error) {
	switch rate {
	case 32000:
		return HDMI_AUDIO_FS_32000, nil
	case 44100:
		return HDMI_AUDIO_FS_44100, nil
	case 48000:
		return HDMI_AUDIO_FS_48000, nil
	case 88200:
		return HDMI_AUDIO_FS_88200, nil
	case 96000:
		return HDMI_AUDIO_FS_96000, nil
	case 176400:
		return HDMI_AUDIO_FS_176400, nil
	case 192000:
		return HDMI_AUDIO_FS_192000, nil
	default:
		return HDMI_AUDIO_FS_NOT_INDICATED, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, rate)
	}
}
