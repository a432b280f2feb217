package hdmi

// AudioFormat is the audio wrapper configuration for one negotiation.
type AudioFormat struct {
	ChannelCount      uint32
	StereoChannels    StereoChannels
	ActiveChannelMask uint8
	Type              AudioType
	Justification     Justification
	SampleOrder       SampleOrder
	SamplesPerWord    SamplesPerWord
	SampleSize        SampleSize
	BlockStartEnd     BlockSig
}

// DMAConfig describes how samples are moved into the wrapper FIFO.
type DMAConfig struct {
	TransferSize  uint16
	BlockSize     uint16
	Mode          TransferMode
	FifoThreshold uint16 // In samples
}

// I2SConfig is the serial interface setup between the wrapper and the core.
type I2SConfig struct {
	HighBitrate   bool
	CbitOrder     bool // Only used with high bitrate audio
	SckEdge       SckEdge
	VBit          VBit
	WSPolarity    WSPolarity
	Direction     ShiftDir
	Shift         Shift
	WordMaxLength WordMaxLength
	WordLength    ChstWord
	InLengthBits  InputLength
	Justification Justification
	ActiveSDs     uint8
}

// ACR holds the audio clock regeneration values carried in ACR packets.
type ACR struct {
	N   uint32
	CTS uint32
}

// CoreAudioConfig is the aggregate written to the HDMI core once per successful negotiation.
type CoreAudioConfig struct {
	I2S             I2SConfig
	FreqSample      SampleFreq
	N               uint32
	CTS             uint32
	AudParBusClk    uint32
	CTSMode         CTSMode
	MclkMode        MclkMode
	Layout          Layout
	EnSPDIF         bool
	FsOverride      bool
	EnACRPkt        bool
	EnDSDAudio      bool
	EnParallelInput bool
}

// InfoFrame holds the CEA-861 audio info frame data bytes.
type InfoFrame struct {
	CodingType     InfoFrameCodingType
	ChannelCount   uint8
	SampleFreq     InfoFrameSampleFreq
	SampleSize     InfoFrameSampleSize
	ChannelAlloc   uint8
	DownmixInhibit bool
	LevelShift     uint8
}
