// Package hdmi implements the audio side of an HDMI transmitter: clock regeneration (N/CTS) math,
// PCM format resolution into wrapper, I2S and CEA-861 info frame settings, ordered submission of
// that configuration to the HDMI IP block, and gating of audio on the display link state.
package hdmi

import "fmt"

// PcmFormat defines the sample format of a PCM stream.
// These values correspond to the SNDRV_PCM_FORMAT_* constants in the ALSA kernel headers.
type PcmFormat int32

const (
	SNDRV_PCM_FORMAT_INVALID  PcmFormat = -1
	SNDRV_PCM_FORMAT_S8       PcmFormat = 0
	SNDRV_PCM_FORMAT_U8       PcmFormat = 1
	SNDRV_PCM_FORMAT_S16_LE   PcmFormat = 2
	SNDRV_PCM_FORMAT_S16_BE   PcmFormat = 3
	SNDRV_PCM_FORMAT_U16_LE   PcmFormat = 4
	SNDRV_PCM_FORMAT_U16_BE   PcmFormat = 5
	SNDRV_PCM_FORMAT_S24_LE   PcmFormat = 6
	SNDRV_PCM_FORMAT_S24_BE   PcmFormat = 7
	SNDRV_PCM_FORMAT_U24_LE   PcmFormat = 8
	SNDRV_PCM_FORMAT_U24_BE   PcmFormat = 9
	SNDRV_PCM_FORMAT_S32_LE   PcmFormat = 10
	SNDRV_PCM_FORMAT_S32_BE   PcmFormat = 11
	SNDRV_PCM_FORMAT_FLOAT_LE PcmFormat = 14
	SNDRV_PCM_FORMAT_S24_3LE  PcmFormat = 32
)

// PcmParamFormatNames provides human-readable names for PCM formats.
var PcmParamFormatNames = map[PcmFormat]string{
	SNDRV_PCM_FORMAT_S8:       "S8",
	SNDRV_PCM_FORMAT_U8:       "U8",
	SNDRV_PCM_FORMAT_S16_LE:   "S16_LE",
	SNDRV_PCM_FORMAT_S16_BE:   "S16_BE",
	SNDRV_PCM_FORMAT_U16_LE:   "U16_LE",
	SNDRV_PCM_FORMAT_U16_BE:   "U16_BE",
	SNDRV_PCM_FORMAT_S24_LE:   "S24_LE",
	SNDRV_PCM_FORMAT_S24_BE:   "S24_BE",
	SNDRV_PCM_FORMAT_U24_LE:   "U24_LE",
	SNDRV_PCM_FORMAT_U24_BE:   "U24_BE",
	SNDRV_PCM_FORMAT_S32_LE:   "S32_LE",
	SNDRV_PCM_FORMAT_S32_BE:   "S32_BE",
	SNDRV_PCM_FORMAT_FLOAT_LE: "FLOAT_LE",
	SNDRV_PCM_FORMAT_S24_3LE:  "S24_3LE",
}

// String returns the ALSA name of the format.
func (f PcmFormat) String() string {
	if name, ok := PcmParamFormatNames[f]; ok {
		return name
	}

	return fmt.Sprintf("PcmFormat(%d)", int32(f))
}

// SampleFreq is the IEC 60958 channel status sampling frequency code written to the core.
type SampleFreq uint8

const (
	HDMI_AUDIO_FS_44100         SampleFreq = 0x0
	HDMI_AUDIO_FS_NOT_INDICATED SampleFreq = 0x1
	HDMI_AUDIO_FS_48000         SampleFreq = 0x2
	HDMI_AUDIO_FS_32000         SampleFreq = 0x3
	HDMI_AUDIO_FS_88200         SampleFreq = 0x8
	HDMI_AUDIO_FS_96000         SampleFreq = 0xA
	HDMI_AUDIO_FS_176400        SampleFreq = 0xC
	HDMI_AUDIO_FS_192000        SampleFreq = 0xE
)

// SupportedRates lists the sample rates, in Hz, the pipeline accepts.
var SupportedRates = []uint32{32000, 44100, 48000, 88200, 96000, 176400, 192000}

// Audio wrapper settings.
type (
	StereoChannels uint8
	AudioType      uint8
	Justification  uint8
	SampleOrder    uint8
	SamplesPerWord uint8
	SampleSize     uint8
	TransferMode   uint8
	BlockSig       uint8
)

const (
	HDMI_AUDIO_STEREO_NOCHANNELS    StereoChannels = 0
	HDMI_AUDIO_STEREO_ONECHANNEL    StereoChannels = 1
	HDMI_AUDIO_STEREO_TWOCHANNELS   StereoChannels = 2
	HDMI_AUDIO_STEREO_THREECHANNELS StereoChannels = 3
	HDMI_AUDIO_STEREO_FOURCHANNELS  StereoChannels = 4

	HDMI_AUDIO_TYPE_LPCM AudioType = 0
	HDMI_AUDIO_TYPE_IEC  AudioType = 1

	HDMI_AUDIO_JUSTIFY_LEFT  Justification = 0
	HDMI_AUDIO_JUSTIFY_RIGHT Justification = 1

	HDMI_AUDIO_SAMPLE_RIGHT_FIRST SampleOrder = 0
	HDMI_AUDIO_SAMPLE_LEFT_FIRST  SampleOrder = 1

	HDMI_AUDIO_ONEWORD_ONESAMPLE  SamplesPerWord = 0
	HDMI_AUDIO_ONEWORD_TWOSAMPLES SamplesPerWord = 1

	HDMI_AUDIO_SAMPLE_16BITS SampleSize = 0
	HDMI_AUDIO_SAMPLE_24BITS SampleSize = 1

	HDMI_AUDIO_TRANSF_DMA TransferMode = 0
	HDMI_AUDIO_TRANSF_IRQ TransferMode = 1

	HDMI_AUDIO_BLOCK_SIG_STARTEND_ON  BlockSig = 0
	HDMI_AUDIO_BLOCK_SIG_STARTEND_OFF BlockSig = 1
)

// String returns a short name for the justification.
func (j Justification) String() string {
	switch j {
	case HDMI_AUDIO_JUSTIFY_LEFT:
		return "left"
	case HDMI_AUDIO_JUSTIFY_RIGHT:
		return "right"
	default:
		return fmt.Sprintf("Justification(%d)", uint8(j))
	}
}

// String returns a short name for the packing mode.
func (s SamplesPerWord) String() string {
	switch s {
	case HDMI_AUDIO_ONEWORD_ONESAMPLE:
		return "one sample per word"
	case HDMI_AUDIO_ONEWORD_TWOSAMPLES:
		return "two samples per word"
	default:
		return fmt.Sprintf("SamplesPerWord(%d)", uint8(s))
	}
}

// I2S interface settings.
type (
	SckEdge       uint8
	VBit          uint8
	WSPolarity    uint8
	ShiftDir      uint8
	Shift         uint8
	WordMaxLength uint8
	ChstWord      uint8
	InputLength   uint8
)

const (
	HDMI_AUDIO_I2S_SCK_EDGE_FALLING SckEdge = 0
	HDMI_AUDIO_I2S_SCK_EDGE_RISING  SckEdge = 1

	HDMI_AUDIO_I2S_VBIT_FOR_PCM        VBit = 0
	HDMI_AUDIO_I2S_VBIT_FOR_COMPRESSED VBit = 1

	HDMI_AUDIO_I2S_WS_POLARITY_LOW_IS_LEFT  WSPolarity = 0
	HDMI_AUDIO_I2S_WS_POLARITY_HIGH_IS_LEFT WSPolarity = 1

	HDMI_AUDIO_I2S_MSB_SHIFTED_FIRST ShiftDir = 0
	HDMI_AUDIO_I2S_LSB_SHIFTED_FIRST ShiftDir = 1

	HDMI_AUDIO_I2S_FIRST_BIT_SHIFT    Shift = 0
	HDMI_AUDIO_I2S_FIRST_BIT_NO_SHIFT Shift = 1

	HDMI_AUDIO_I2S_MAX_WORD_20BITS WordMaxLength = 0
	HDMI_AUDIO_I2S_MAX_WORD_24BITS WordMaxLength = 1

	HDMI_AUDIO_I2S_CHST_WORD_NOT_SPECIFIED ChstWord = 0
	HDMI_AUDIO_I2S_CHST_WORD_16_BITS       ChstWord = 1
	HDMI_AUDIO_I2S_CHST_WORD_24_BITS       ChstWord = 5

	HDMI_AUDIO_I2S_INPUT_LENGTH_NA InputLength = 0x0
	HDMI_AUDIO_I2S_INPUT_LENGTH_16 InputLength = 0x2
	HDMI_AUDIO_I2S_INPUT_LENGTH_24 InputLength = 0xB
)

// I2S serial data line enables.
const (
	HDMI_AUDIO_I2S_SD0_EN uint8 = 1 << 0
	HDMI_AUDIO_I2S_SD1_EN uint8 = 1 << 1
	HDMI_AUDIO_I2S_SD2_EN uint8 = 1 << 2
	HDMI_AUDIO_I2S_SD3_EN uint8 = 1 << 3
)

// Core settings.
type (
	CTSMode  uint8
	MclkMode uint8
	Layout   uint8
)

const (
	HDMI_AUDIO_CTS_MODE_HW CTSMode = 0
	HDMI_AUDIO_CTS_MODE_SW CTSMode = 1

	HDMI_AUDIO_MCLK_128FS MclkMode = 0
	HDMI_AUDIO_MCLK_256FS MclkMode = 1

	HDMI_AUDIO_LAYOUT_2CH Layout = 0
	HDMI_AUDIO_LAYOUT_8CH Layout = 1
)

// String returns "hw" or "sw".
func (m CTSMode) String() string {
	if m == HDMI_AUDIO_CTS_MODE_SW {
		return "sw"
	}

	return "hw"
}

// CEA-861 audio info frame settings.
type (
	InfoFrameCodingType uint8
	InfoFrameSampleFreq uint8
	InfoFrameSampleSize uint8
)

const (
	HDMI_INFOFRAME_AUDIO_DB1CT_FROM_STREAM InfoFrameCodingType = 0
	HDMI_INFOFRAME_AUDIO_DB1CT_IEC60958    InfoFrameCodingType = 1

	HDMI_INFOFRAME_AUDIO_DB2SF_FROM_STREAM InfoFrameSampleFreq = 0
	HDMI_INFOFRAME_AUDIO_DB2SS_FROM_STREAM InfoFrameSampleSize = 0
)
