package hdmi

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// IPOps is the configuration interface of the HDMI IP block (wrapper and core).
// Implementations must be safe for concurrent use; SetAudioEnabled(false) may arrive from the
// link coordinator while a negotiation is in progress.
type IPOps interface {
	ConfigureDMA(cfg DMAConfig) error
	ConfigureFormat(cfg AudioFormat) error
	ConfigureCoreAudio(cfg CoreAudioConfig) error
	ConfigureInfoFrame(cfg InfoFrame) error
	SetAudioEnabled(enable bool) error
	// SoftwareCTS reports whether CTS values are driven by software rather than measured by hardware.
	SoftwareCTS() bool
}

// Display is the video output that owns the pixel clock.
type Display interface {
	// PixelClock returns the pixel clock of the current timings in kHz.
	PixelClock() (uint32, error)
	// HDMIMode reports whether the output runs in HDMI (as opposed to DVI) mode.
	HDMIMode() bool
}

// TriggerCmd is a PCM trigger command.
// These values correspond to the SNDRV_PCM_TRIGGER_* constants.
type TriggerCmd int

const (
	SNDRV_PCM_TRIGGER_STOP          TriggerCmd = 0
	SNDRV_PCM_TRIGGER_START         TriggerCmd = 1
	SNDRV_PCM_TRIGGER_PAUSE_PUSH    TriggerCmd = 3
	SNDRV_PCM_TRIGGER_PAUSE_RELEASE TriggerCmd = 4
	SNDRV_PCM_TRIGGER_SUSPEND       TriggerCmd = 5
	SNDRV_PCM_TRIGGER_RESUME        TriggerCmd = 6
)

// Bus clock divider used when the hardware measures CTS.
const hwAudParBusClk = ((128 * 31) - 1) << 8

// CodecConfig holds optional settings of a Codec.
type CodecConfig struct {
	// DeepColor of the video mode. Defaults to DefaultDeepColor.
	DeepColor DeepColor
	// Logger defaults to discarding.
	Logger *log.Logger
}

// Codec is the HDMI audio codec: it negotiates stream parameters into the IP block and switches
// the audio output stage under the control of the link coordinator.
type Codec struct {
	mu        sync.Mutex // Serializes negotiations and triggers
	ops       IPOps
	display   Display
	link      *Coordinator
	deepColor DeepColor
	logger    *log.Logger
	enabled   bool // Guarded by link.mu
}

// NewCodec creates a codec and attaches it to the link coordinator.
// If config is nil, defaults are used.
func NewCodec(ops IPOps, display Display, link *Coordinator, config *CodecConfig) (*Codec, error) {
	if ops == nil {
		return nil, fmt.Errorf("undefined HDMI ops: %w", ErrOpsUnavailable)
	}

	if link == nil {
		return nil, fmt.Errorf("link coordinator is nil")
	}

	c := &Codec{
		ops:       ops,
		display:   display,
		link:      link,
		deepColor: DefaultDeepColor,
		logger:    log.New(io.Discard, "", 0),
	}

	if config != nil {
		if config.DeepColor != 0 {
			c.deepColor = config.DeepColor
		}

		if config.Logger != nil {
			c.logger = config.Logger
		}
	}

	link.attach(c)

	return c, nil
}

// Close disables the output stage if it is on and detaches the codec from the coordinator.
func (c *Codec) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.link.detach(c)

	return c.link.locked(func() error {
		if !c.enabled {
			return nil
		}

		c.enabled = false
		if err := c.ops.SetAudioEnabled(false); err != nil {
			return fmt.Errorf("%w: disable audio: %w", ErrOpsRejected, err)
		}

		return nil
	})
}

// Enabled reports whether the audio output stage is on.
func (c *Codec) Enabled() bool {
	var enabled bool
	_ = c.link.locked(func() error {
		enabled = c.enabled

		return nil
	})

	return enabled
}

// Startup checks that a stream may be opened: the IP is ready, the display runs in HDMI mode
// and the link is active.
func (c *Codec) Startup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.opsReady(); err != nil {
		return err
	}

	if c.display == nil {
		return fmt.Errorf("HDMI display device not found: %w", ErrMissingClockReference)
	}

	if !c.display.HDMIMode() {
		return ErrNoAudioMode
	}

	if state := c.link.State(); state != LinkActive {
		return fmt.Errorf("%w (%s)", ErrLinkInactive, state)
	}

	return nil
}

// HwParams derives the full audio configuration for p and submits it to the IP block.
// Nothing is submitted unless every derivation step succeeds; submission stops at the first
// rejected call.
func (c *Codec) HwParams(p StreamParams) (CoreAudioConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hwParams(p)
}

// Negotiate runs HwParams and then starts the output stage. The start is refused if the link
// left the active state in the meantime.
func (c *Codec) Negotiate(p StreamParams) (CoreAudioConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	core, err := c.hwParams(p)
	if err != nil {
		return CoreAudioConfig{}, err
	}

	if err := c.start(); err != nil {
		return CoreAudioConfig{}, err
	}

	return core, nil
}

// Trigger starts or stops the audio output stage.
func (c *Codec) Trigger(cmd TriggerCmd) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.opsReady(); err != nil {
		return fmt.Errorf("cannot enable/disable audio: %w", err)
	}

	switch cmd {
	case SNDRV_PCM_TRIGGER_START, SNDRV_PCM_TRIGGER_RESUME, SNDRV_PCM_TRIGGER_PAUSE_RELEASE:
		return c.start()
	case SNDRV_PCM_TRIGGER_STOP, SNDRV_PCM_TRIGGER_SUSPEND, SNDRV_PCM_TRIGGER_PAUSE_PUSH:
		return c.stop()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidTrigger, cmd)
	}
}

func (c *Codec) hwParams(p StreamParams) (CoreAudioConfig, error) {
	if err := c.opsReady(); err != nil {
		return CoreAudioConfig{}, err
	}

	res, err := ResolveFormat(p)
	if err != nil {
		return CoreAudioConfig{}, err
	}

	pclk, err := c.pixelClock()
	if err != nil {
		return CoreAudioConfig{}, err
	}

	acr, err := ComputeACR(p.Rate, pclk, c.deepColor)
	if err != nil {
		return CoreAudioConfig{}, err
	}

	core := buildCoreConfig(res, acr, c.ops.SoftwareCTS())

	// The format must be fixed before the core, and the core before the info frame is sent.
	steps := []struct {
		name string
		fn   func() error
	}{
		{"audio DMA", func() error { return c.ops.ConfigureDMA(res.DMA) }},
		{"audio format", func() error { return c.ops.ConfigureFormat(res.Format) }},
		{"core audio", func() error { return c.ops.ConfigureCoreAudio(core) }},
		{"audio info frame", func() error { return c.ops.ConfigureInfoFrame(res.InfoFrame) }},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return CoreAudioConfig{}, fmt.Errorf("%w: %s: %w", ErrOpsRejected, step.name, err)
		}
	}

	c.logger.Printf("configured %s %d Hz %d ch: N=%d CTS=%d (%s CTS)",
		p.Format, p.Rate, p.Channels, core.N, core.CTS, core.CTSMode)

	return core, nil
}

func (c *Codec) start() error {
	return c.link.whileActive(func() error {
		if err := c.ops.SetAudioEnabled(true); err != nil {
			return fmt.Errorf("%w: enable audio: %w", ErrOpsRejected, err)
		}
		c.enabled = true

		return nil
	})
}

func (c *Codec) stop() error {
	return c.link.locked(func() error {
		c.enabled = false
		if err := c.ops.SetAudioEnabled(false); err != nil {
			return fmt.Errorf("%w: disable audio: %w", ErrOpsRejected, err)
		}

		return nil
	})
}

// haltOutputLocked is called by the coordinator, with its lock held, when the link goes down.
func (c *Codec) haltOutputLocked() {
	if !c.enabled {
		return
	}

	c.enabled = false
	if err := c.ops.SetAudioEnabled(false); err != nil {
		c.logger.Printf("disable audio on link loss: %v", err)
	}
}

func (c *Codec) opsReady() error {
	if r, ok := c.ops.(interface{ Ready() bool }); ok && !r.Ready() {
		return ErrOpsUnavailable
	}

	return nil
}

func (c *Codec) pixelClock() (uint32, error) {
	if c.display == nil {
		return 0, fmt.Errorf("HDMI display device not found: %w", ErrMissingClockReference)
	}

	pclk, err := c.display.PixelClock()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingClockReference, err)
	}

	if pclk == 0 {
		return 0, ErrMissingClockReference
	}

	return pclk, nil
}

func buildCoreConfig(res Resolution, acr ACR, softwareCTS bool) CoreAudioConfig {
	core := CoreAudioConfig{
		I2S:        res.I2S,
		FreqSample: res.SampleFreq,
		N:          acr.N,
		CTS:        acr.CTS,
		Layout:     res.Layout,
		EnSPDIF:    false,
		// Use sample frequency from channel status word
		FsOverride:      true,
		EnACRPkt:        true,
		EnDSDAudio:      false,
		EnParallelInput: true,
	}

	if softwareCTS {
		core.AudParBusClk = 0
		core.CTSMode = HDMI_AUDIO_CTS_MODE_SW
	} else {
		core.AudParBusClk = hwAudParBusClk
		core.CTSMode = HDMI_AUDIO_CTS_MODE_HW
		core.MclkMode = HDMI_AUDIO_MCLK_128FS
	}

	return core
}
