package hdmi

import (
	"fmt"

	"github.com/go-audio/audio"
)

// DefaultChannelMask enables the two channels of a stereo stream.
const DefaultChannelMask uint8 = 0x03

// Fixed wrapper and DMA policy.
const (
	dmaBlockSize     = 0xC0
	dmaFifoThreshold = 0x20 // In number of samples
)

// StreamParams are the negotiated PCM parameters of a playback stream.
type StreamParams struct {
	Format   PcmFormat
	Rate     uint32 // In Hz
	Channels uint32
	// ChannelMask overrides the active channel bitmask when non-zero.
	ChannelMask uint8
}

// Resolution is everything derived from StreamParams that does not depend on the pixel clock.
type Resolution struct {
	Format     AudioFormat
	I2S        I2SConfig
	DMA        DMAConfig
	InfoFrame  InfoFrame
	SampleFreq SampleFreq
	Layout     Layout
}

// ResolveFormat maps stream parameters to the wrapper, I2S, DMA and info frame settings.
// Nothing is returned unless every parameter is supported.
func ResolveFormat(p StreamParams) (Resolution, error) {
	var res Resolution

	switch p.Format {
	case SNDRV_PCM_FORMAT_S16_LE:
		res.I2S.WordMaxLength = HDMI_AUDIO_I2S_MAX_WORD_20BITS
		res.I2S.WordLength = HDMI_AUDIO_I2S_CHST_WORD_16_BITS
		res.I2S.InLengthBits = HDMI_AUDIO_I2S_INPUT_LENGTH_16
		res.I2S.Justification = HDMI_AUDIO_JUSTIFY_LEFT
		res.Format.SamplesPerWord = HDMI_AUDIO_ONEWORD_TWOSAMPLES
		res.Format.SampleSize = HDMI_AUDIO_SAMPLE_16BITS
		res.Format.Justification = HDMI_AUDIO_JUSTIFY_LEFT
		res.DMA.TransferSize = 0x10
	case SNDRV_PCM_FORMAT_S24_LE:
		res.I2S.WordMaxLength = HDMI_AUDIO_I2S_MAX_WORD_24BITS
		res.I2S.WordLength = HDMI_AUDIO_I2S_CHST_WORD_24_BITS
		res.I2S.InLengthBits = HDMI_AUDIO_I2S_INPUT_LENGTH_24
		res.I2S.Justification = HDMI_AUDIO_JUSTIFY_RIGHT
		res.Format.SamplesPerWord = HDMI_AUDIO_ONEWORD_ONESAMPLE
		res.Format.SampleSize = HDMI_AUDIO_SAMPLE_24BITS
		res.Format.Justification = HDMI_AUDIO_JUSTIFY_RIGHT
		res.DMA.TransferSize = 0x20
	default:
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, p.Format)
	}

	freq, err := SampleFreqFor(p.Rate)
	if err != nil {
		return Resolution{}, err
	}
	res.SampleFreq = freq

	if p.Channels < 2 || p.Channels > 8 {
		return Resolution{}, fmt.Errorf("%w: %d", ErrUnsupportedChannelCount, p.Channels)
	}

	// Each I2S data line carries one channel pair.
	pairs := (p.Channels + 1) / 2

	res.Format.ChannelCount = p.Channels
	res.Format.StereoChannels = StereoChannels(pairs)
	res.Format.ActiveChannelMask = channelMask(p.Channels, p.ChannelMask)
	res.Format.Type = HDMI_AUDIO_TYPE_LPCM
	res.Format.SampleOrder = HDMI_AUDIO_SAMPLE_LEFT_FIRST
	// Disable start/stop signals of IEC 60958 blocks
	res.Format.BlockStartEnd = HDMI_AUDIO_BLOCK_SIG_STARTEND_OFF

	res.DMA.BlockSize = dmaBlockSize
	res.DMA.Mode = HDMI_AUDIO_TRANSF_DMA
	res.DMA.FifoThreshold = dmaFifoThreshold

	res.I2S.HighBitrate = false
	res.I2S.CbitOrder = false
	// Serial data and word select change on the SCK rising edge.
	res.I2S.SckEdge = HDMI_AUDIO_I2S_SCK_EDGE_RISING
	res.I2S.VBit = HDMI_AUDIO_I2S_VBIT_FOR_PCM
	res.I2S.WSPolarity = HDMI_AUDIO_I2S_WS_POLARITY_LOW_IS_LEFT
	res.I2S.Direction = HDMI_AUDIO_I2S_MSB_SHIFTED_FIRST
	// Serial data to word select shift, see Philips I2S spec.
	res.I2S.Shift = HDMI_AUDIO_I2S_FIRST_BIT_SHIFT
	res.I2S.ActiveSDs = uint8(1<<pairs) - 1

	if p.Channels == 2 {
		res.Layout = HDMI_AUDIO_LAYOUT_2CH
	} else {
		res.Layout = HDMI_AUDIO_LAYOUT_8CH
	}

	// Info frame audio, see CEA-861-D page 74.
	res.InfoFrame = InfoFrame{
		CodingType:     HDMI_INFOFRAME_AUDIO_DB1CT_FROM_STREAM,
		ChannelCount:   uint8(p.Channels),
		SampleFreq:     HDMI_INFOFRAME_AUDIO_DB2SF_FROM_STREAM,
		SampleSize:     HDMI_INFOFRAME_AUDIO_DB2SS_FROM_STREAM,
		ChannelAlloc:   channelAllocation(p.Channels),
		DownmixInhibit: false,
		LevelShift:     0,
	}

	return res, nil
}

func channelMask(channels uint32, override uint8) uint8 {
	if override != 0 {
		return override
	}

	if channels == 2 {
		return DefaultChannelMask
	}

	return uint8(uint16(1)<<channels - 1)
}

// channelAllocation returns the CEA-861 speaker allocation code (CA) for a channel count.
func channelAllocation(channels uint32) uint8 {
	switch channels {
	case 2:
		return 0x00
	case 6:
		return 0x0b
	default:
		return 0x13
	}
}

// ParamsFromFormat builds stream parameters from a go-audio format and the source bit depth.
// 16-bit sources map to S16_LE, 24-bit sources to S24_LE.
func ParamsFromFormat(f *audio.Format, bitDepth int) (StreamParams, error) {
	if f == nil {
		return StreamParams{}, fmt.Errorf("audio format is nil")
	}

	var format PcmFormat
	switch bitDepth {
	case 16:
		format = SNDRV_PCM_FORMAT_S16_LE
	case 24:
		format = SNDRV_PCM_FORMAT_S24_LE
	default:
		return StreamParams{}, fmt.Errorf("%w: %d-bit source", ErrUnsupportedSampleFormat, bitDepth)
	}

	if f.SampleRate <= 0 || f.NumChannels <= 0 {
		return StreamParams{}, fmt.Errorf("invalid audio format (SampleRate=%d, NumChannels=%d)", f.SampleRate, f.NumChannels)
	}

	return StreamParams{
		Format:   format,
		Rate:     uint32(f.SampleRate),
		Channels: uint32(f.NumChannels),
	}, nil
}
