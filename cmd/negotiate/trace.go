package main

import (
	"fmt"
	"io"

	"github.com/gen2brain/hdmi"
)

// traceOps prints every record submitted to the HDMI IP instead of programming registers.
type traceOps struct {
	w           io.Writer
	softwareCTS bool
}

func (t *traceOps) ConfigureDMA(cfg hdmi.DMAConfig) error {
	fmt.Fprintf(t.w, "DMA:         %+v\n", cfg)

	return nil
}

func (t *traceOps) ConfigureFormat(cfg hdmi.AudioFormat) error {
	fmt.Fprintf(t.w, "Format:      %+v\n", cfg)

	return nil
}

func (t *traceOps) ConfigureCoreAudio(cfg hdmi.CoreAudioConfig) error {
	fmt.Fprintf(t.w, "Core:        N=%d CTS=%d mode=%s fs=%#x layout=%d busclk=%#x\n",
		cfg.N, cfg.CTS, cfg.CTSMode, cfg.FreqSample, cfg.Layout, cfg.AudParBusClk)
	fmt.Fprintf(t.w, "I2S:         %+v\n", cfg.I2S)

	return nil
}

func (t *traceOps) ConfigureInfoFrame(cfg hdmi.InfoFrame) error {
	fmt.Fprintf(t.w, "Info frame:  %+v\n", cfg)

	return nil
}

func (t *traceOps) SetAudioEnabled(enable bool) error {
	fmt.Fprintf(t.w, "Audio:       enabled=%t\n", enable)

	return nil
}

func (t *traceOps) SoftwareCTS() bool { return t.softwareCTS }

// tracePower stands in for the companion chip when the profile has no GPIO lines.
type tracePower struct {
	w io.Writer
}

func (t *tracePower) SetPower(on bool) error {
	fmt.Fprintf(t.w, "Companion:   sink power=%t\n", on)

	return nil
}

func (t *tracePower) SetDataLink(enable bool) error {
	fmt.Fprintf(t.w, "Companion:   data link=%t\n", enable)

	return nil
}

// staticDisplay reports the pixel clock of the profile.
type staticDisplay struct {
	pclk uint32
	dvi  bool
}

func (d staticDisplay) PixelClock() (uint32, error) { return d.pclk, nil }
func (d staticDisplay) HDMIMode() bool              { return !d.dvi }

// printStream is the stream stopped when the link goes down.
type printStream struct {
	w io.Writer
}

func (s printStream) Stop() error {
	fmt.Fprintln(s.w, "Stream:      stopped (disconnected)")

	return nil
}
