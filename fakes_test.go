package hdmi_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/hdmi"
)

var errBoom = errors.New("boom")

// fakeIP records every call into the HDMI IP in order.
type fakeIP struct {
	mu          sync.Mutex
	calls       []string
	failOn      string
	softwareCTS bool
	notReady    bool
	enabled     bool
	core        hdmi.CoreAudioConfig
	infoFrame   hdmi.InfoFrame
}

func (f *fakeIP) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errBoom
	}

	return nil
}

func (f *fakeIP) ConfigureDMA(hdmi.DMAConfig) error      { return f.record("dma") }
func (f *fakeIP) ConfigureFormat(hdmi.AudioFormat) error { return f.record("format") }
func (f *fakeIP) SoftwareCTS() bool                      { return f.softwareCTS }
func (f *fakeIP) Ready() bool                            { return !f.notReady }

func (f *fakeIP) ConfigureCoreAudio(cfg hdmi.CoreAudioConfig) error {
	if err := f.record("core"); err != nil {
		return err
	}

	f.mu.Lock()
	f.core = cfg
	f.mu.Unlock()

	return nil
}

func (f *fakeIP) ConfigureInfoFrame(cfg hdmi.InfoFrame) error {
	if err := f.record("infoframe"); err != nil {
		return err
	}

	f.mu.Lock()
	f.infoFrame = cfg
	f.mu.Unlock()

	return nil
}

func (f *fakeIP) SetAudioEnabled(enable bool) error {
	if err := f.record(fmt.Sprintf("enable(%t)", enable)); err != nil {
		return err
	}

	f.mu.Lock()
	f.enabled = enable
	f.mu.Unlock()

	return nil
}

func (f *fakeIP) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *fakeIP) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.enabled
}

type fakeDisplay struct {
	pclk uint32
	err  error
	dvi  bool
}

func (d *fakeDisplay) PixelClock() (uint32, error) { return d.pclk, d.err }
func (d *fakeDisplay) HDMIMode() bool              { return !d.dvi }

// fakePower records companion chip writes.
type fakePower struct {
	mu        sync.Mutex
	calls     []string
	failPower bool
	failLink  bool
}

func (p *fakePower) SetPower(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, fmt.Sprintf("power(%t)", on))
	if p.failPower {
		return errBoom
	}

	return nil
}

func (p *fakePower) SetDataLink(enable bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, fmt.Sprintf("link(%t)", enable))
	if p.failLink {
		return errBoom
	}

	return nil
}

func (p *fakePower) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.calls...)
}

type fakeStream struct {
	stops atomic.Int32
	err   error
}

func (s *fakeStream) Stop() error {
	s.stops.Add(1)

	return s.err
}

// triggerStream stops the way a PCM core does: by triggering STOP on the codec.
type triggerStream struct {
	codec *hdmi.Codec
	stops atomic.Int32
}

func (s *triggerStream) Stop() error {
	s.stops.Add(1)

	return s.codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_STOP)
}

var stereo16 = hdmi.StreamParams{
	Format:   hdmi.SNDRV_PCM_FORMAT_S16_LE,
	Rate:     48000,
	Channels: 2,
}

// newActiveCodec returns a codec whose link coordinator is already in the active state.
func newActiveCodec(ip *fakeIP, power *fakePower) (*hdmi.Codec, *hdmi.Coordinator, error) {
	coord := hdmi.NewCoordinator(power, nil)
	coord.Notify(hdmi.LinkEvent{State: hdmi.LinkActive})

	codec, err := hdmi.NewCodec(ip, &fakeDisplay{pclk: 74250}, coord, nil)

	return codec, coord, err
}
