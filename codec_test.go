package hdmi_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/gen2brain/hdmi"
)

func TestNewCodecInvalid(t *testing.T) {
	coord := hdmi.NewCoordinator(nil, nil)

	_, err := hdmi.NewCodec(nil, &fakeDisplay{pclk: 74250}, coord, nil)
	assert.ErrorIs(t, err, hdmi.ErrOpsUnavailable)

	_, err = hdmi.NewCodec(&fakeIP{}, &fakeDisplay{pclk: 74250}, nil, nil)
	assert.Error(t, err)
}

func TestCodecHwParamsSubmissionOrder(t *testing.T) {
	ip := &fakeIP{}
	codec, _, err := newActiveCodec(ip, &fakePower{})
	require.NoError(t, err)

	core, err := codec.HwParams(stereo16)
	require.NoError(t, err)

	assert.Equal(t, []string{"dma", "format", "core", "infoframe"}, ip.Calls())
	assert.Equal(t, core, ip.core)
	assert.Equal(t, uint8(2), ip.infoFrame.ChannelCount)
	assert.False(t, codec.Enabled(), "HwParams must not enable audio")
}

func TestCodecHwParamsCoreConfig(t *testing.T) {
	t.Run("HardwareCTS", func(t *testing.T) {
		codec, _, err := newActiveCodec(&fakeIP{}, &fakePower{})
		require.NoError(t, err)

		core, err := codec.HwParams(stereo16)
		require.NoError(t, err)

		assert.Equal(t, uint32(6144), core.N)
		assert.Equal(t, uint32(74250), core.CTS)
		assert.Equal(t, hdmi.HDMI_AUDIO_FS_48000, core.FreqSample)
		assert.Equal(t, hdmi.HDMI_AUDIO_CTS_MODE_HW, core.CTSMode)
		assert.Equal(t, uint32(((128*31)-1)<<8), core.AudParBusClk)
		assert.Equal(t, hdmi.HDMI_AUDIO_MCLK_128FS, core.MclkMode)
		assert.Equal(t, hdmi.HDMI_AUDIO_LAYOUT_2CH, core.Layout)
		assert.True(t, core.FsOverride)
		assert.True(t, core.EnACRPkt)
		assert.True(t, core.EnParallelInput)
		assert.False(t, core.EnSPDIF)
		assert.False(t, core.EnDSDAudio)
		assert.Equal(t, hdmi.HDMI_AUDIO_JUSTIFY_LEFT, core.I2S.Justification)
	})

	t.Run("SoftwareCTS", func(t *testing.T) {
		codec, _, err := newActiveCodec(&fakeIP{softwareCTS: true}, &fakePower{})
		require.NoError(t, err)

		core, err := codec.HwParams(stereo16)
		require.NoError(t, err)

		assert.Equal(t, hdmi.HDMI_AUDIO_CTS_MODE_SW, core.CTSMode)
		assert.Equal(t, uint32(0), core.AudParBusClk)
	})

	t.Run("DeepColor", func(t *testing.T) {
		coord := hdmi.NewCoordinator(nil, nil)
		codec, err := hdmi.NewCodec(&fakeIP{}, &fakeDisplay{pclk: 74250}, coord, &hdmi.CodecConfig{DeepColor: hdmi.DeepColor30})
		require.NoError(t, err)

		core, err := codec.HwParams(stereo16)
		require.NoError(t, err)
		assert.Equal(t, uint32(8192), core.N)
	})
}

func TestCodecHwParamsRejected(t *testing.T) {
	testCases := []struct {
		failOn string
		calls  []string
	}{
		{"dma", []string{"dma"}},
		{"format", []string{"dma", "format"}},
		{"core", []string{"dma", "format", "core"}},
		{"infoframe", []string{"dma", "format", "core", "infoframe"}},
	}

	for _, tc := range testCases {
		t.Run(tc.failOn, func(t *testing.T) {
			ip := &fakeIP{failOn: tc.failOn}
			codec, _, err := newActiveCodec(ip, &fakePower{})
			require.NoError(t, err)

			core, err := codec.Negotiate(stereo16)
			assert.ErrorIs(t, err, hdmi.ErrOpsRejected)
			assert.ErrorIs(t, err, errBoom)
			assert.Equal(t, hdmi.CoreAudioConfig{}, core)
			assert.Equal(t, tc.calls, ip.Calls(), "no step may follow a rejected one")
			assert.False(t, codec.Enabled())
		})
	}
}

func TestCodecHwParamsNothingSubmittedOnDerivationError(t *testing.T) {
	t.Run("UnsupportedRate", func(t *testing.T) {
		ip := &fakeIP{}
		codec, _, err := newActiveCodec(ip, &fakePower{})
		require.NoError(t, err)

		p := stereo16
		p.Rate = 22050
		_, err = codec.HwParams(p)
		assert.ErrorIs(t, err, hdmi.ErrUnsupportedSampleRate)
		assert.Empty(t, ip.Calls())
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		ip := &fakeIP{}
		codec, _, err := newActiveCodec(ip, &fakePower{})
		require.NoError(t, err)

		p := stereo16
		p.Format = hdmi.SNDRV_PCM_FORMAT_FLOAT_LE
		_, err = codec.HwParams(p)
		assert.ErrorIs(t, err, hdmi.ErrUnsupportedSampleFormat)
		assert.Empty(t, ip.Calls())
	})

	t.Run("MissingDisplay", func(t *testing.T) {
		ip := &fakeIP{}
		codec, err := hdmi.NewCodec(ip, nil, hdmi.NewCoordinator(nil, nil), nil)
		require.NoError(t, err)

		_, err = codec.HwParams(stereo16)
		assert.ErrorIs(t, err, hdmi.ErrMissingClockReference)
		assert.Empty(t, ip.Calls())
	})

	t.Run("PixelClockError", func(t *testing.T) {
		ip := &fakeIP{}
		codec, err := hdmi.NewCodec(ip, &fakeDisplay{err: errBoom}, hdmi.NewCoordinator(nil, nil), nil)
		require.NoError(t, err)

		_, err = codec.HwParams(stereo16)
		assert.ErrorIs(t, err, hdmi.ErrMissingClockReference)
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, ip.Calls())
	})

	t.Run("ZeroPixelClock", func(t *testing.T) {
		ip := &fakeIP{}
		codec, err := hdmi.NewCodec(ip, &fakeDisplay{}, hdmi.NewCoordinator(nil, nil), nil)
		require.NoError(t, err)

		_, err = codec.HwParams(stereo16)
		assert.ErrorIs(t, err, hdmi.ErrMissingClockReference)
		assert.Empty(t, ip.Calls())
	})

	t.Run("OpsNotReady", func(t *testing.T) {
		ip := &fakeIP{notReady: true}
		codec, _, err := newActiveCodec(ip, &fakePower{})
		require.NoError(t, err)

		_, err = codec.HwParams(stereo16)
		assert.ErrorIs(t, err, hdmi.ErrOpsUnavailable)
		assert.Empty(t, ip.Calls())

		err = codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_START)
		assert.ErrorIs(t, err, hdmi.ErrOpsUnavailable)
		assert.Empty(t, ip.Calls())
	})
}

func TestCodecStartup(t *testing.T) {
	coord := hdmi.NewCoordinator(nil, nil)
	display := &fakeDisplay{pclk: 74250}
	codec, err := hdmi.NewCodec(&fakeIP{}, display, coord, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, codec.Startup(), hdmi.ErrLinkInactive)

	coord.Notify(hdmi.LinkEvent{State: hdmi.LinkActive})
	assert.NoError(t, codec.Startup())

	display.dvi = true
	assert.ErrorIs(t, codec.Startup(), hdmi.ErrNoAudioMode)

	noDisplay, err := hdmi.NewCodec(&fakeIP{}, nil, coord, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, noDisplay.Startup(), hdmi.ErrMissingClockReference)
}

func TestCodecTrigger(t *testing.T) {
	ip := &fakeIP{}
	codec, _, err := newActiveCodec(ip, &fakePower{})
	require.NoError(t, err)

	for _, cmd := range []hdmi.TriggerCmd{hdmi.SNDRV_PCM_TRIGGER_START, hdmi.SNDRV_PCM_TRIGGER_RESUME, hdmi.SNDRV_PCM_TRIGGER_PAUSE_RELEASE} {
		require.NoError(t, codec.Trigger(cmd))
		assert.True(t, codec.Enabled())
		assert.True(t, ip.Enabled())

		require.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_STOP))
		assert.False(t, codec.Enabled())
		assert.False(t, ip.Enabled())
	}

	require.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_START))
	require.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_PAUSE_PUSH))
	assert.False(t, ip.Enabled())

	require.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_START))
	require.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_SUSPEND))
	assert.False(t, ip.Enabled())

	err = codec.Trigger(hdmi.TriggerCmd(42))
	assert.ErrorIs(t, err, hdmi.ErrInvalidTrigger)
}

func TestCodecTriggerRefusedWhileLinkDown(t *testing.T) {
	ip := &fakeIP{}
	coord := hdmi.NewCoordinator(nil, nil)
	codec, err := hdmi.NewCodec(ip, &fakeDisplay{pclk: 74250}, coord, nil)
	require.NoError(t, err)

	err = codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_START)
	assert.ErrorIs(t, err, hdmi.ErrLinkInactive)
	assert.Empty(t, ip.Calls())
	assert.False(t, codec.Enabled())

	// Stopping is always allowed.
	assert.NoError(t, codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_STOP))

	_, err = codec.Negotiate(stereo16)
	assert.ErrorIs(t, err, hdmi.ErrLinkInactive)
	assert.False(t, ip.Enabled())
}

func TestCodecTriggerEnableRejected(t *testing.T) {
	ip := &fakeIP{failOn: "enable(true)"}
	codec, _, err := newActiveCodec(ip, &fakePower{})
	require.NoError(t, err)

	err = codec.Trigger(hdmi.SNDRV_PCM_TRIGGER_START)
	assert.ErrorIs(t, err, hdmi.ErrOpsRejected)
	assert.False(t, codec.Enabled())
}

func TestCodecClose(t *testing.T) {
	ip := &fakeIP{}
	codec, coord, err := newActiveCodec(ip, &fakePower{})
	require.NoError(t, err)

	_, err = codec.Negotiate(stereo16)
	require.NoError(t, err)
	require.True(t, ip.Enabled())

	require.NoError(t, codec.Close())
	assert.False(t, ip.Enabled())

	// A detached codec is no longer halted by the coordinator.
	calls := len(ip.Calls())
	coord.Notify(hdmi.LinkEvent{State: hdmi.LinkDisabled})
	assert.Len(t, ip.Calls(), calls)
}

func TestErrno(t *testing.T) {
	testCases := []struct {
		err   error
		errno unix.Errno
	}{
		{nil, 0},
		{hdmi.ErrUnsupportedSampleRate, unix.EINVAL},
		{hdmi.ErrUnsupportedSampleFormat, unix.EINVAL},
		{hdmi.ErrUnsupportedChannelCount, unix.EINVAL},
		{hdmi.ErrInvalidTrigger, unix.EINVAL},
		{hdmi.ErrMissingClockReference, unix.ENODEV},
		{hdmi.ErrOpsUnavailable, unix.ENODEV},
		{hdmi.ErrNoAudioMode, unix.EIO},
		{hdmi.ErrLinkInactive, unix.EIO},
		{fmt.Errorf("%w: core audio: %w", hdmi.ErrOpsRejected, errBoom), unix.EIO},
		{fmt.Errorf("%w: core audio: %w", hdmi.ErrOpsRejected, unix.EBUSY), unix.EBUSY},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.errno, hdmi.Errno(tc.err), "%v", tc.err)
	}
}
