package hdmi

import (
	"errors"

	"golang.org/x/sys/unix"
)

var (
	// ErrUnsupportedSampleRate is returned for a rate outside SupportedRates.
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
	// ErrUnsupportedSampleFormat is returned for PCM formats other than S16_LE and S24_LE.
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
	// ErrUnsupportedChannelCount is returned for channel counts outside 2..8.
	ErrUnsupportedChannelCount = errors.New("unsupported channel count")
	// ErrUnsupportedDeepColor is returned for a deep color factor other than 100, 125, 150 or 200.
	ErrUnsupportedDeepColor = errors.New("unsupported deep color")
	// ErrMissingClockReference is returned when no pixel clock is available.
	ErrMissingClockReference = errors.New("pixel clock unavailable")
	// ErrOpsUnavailable is returned when the HDMI IP operations are missing or not ready.
	ErrOpsUnavailable = errors.New("HDMI IP operations unavailable")
	// ErrOpsRejected wraps the first failing configuration call into the HDMI IP.
	ErrOpsRejected = errors.New("HDMI IP rejected configuration")
	// ErrLinkInactive is returned when audio is requested while the display link is not active.
	ErrLinkInactive = errors.New("display link not active")
	// ErrNoAudioMode is returned when the current video mode (DVI) cannot carry audio.
	ErrNoAudioMode = errors.New("current video settings do not support audio")
	// ErrInvalidTrigger is returned for an unknown trigger command.
	ErrInvalidTrigger = errors.New("invalid trigger command")
)

// Errno maps an error returned by this package to the errno a kernel codec driver would report.
// It returns 0 for a nil error. An errno wrapped anywhere in the chain, such as one reported by
// the IP layer, takes precedence.
func Errno(err error) unix.Errno {
	if err == nil {
		return 0
	}

	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}

	switch {
	case errors.Is(err, ErrMissingClockReference), errors.Is(err, ErrOpsUnavailable):
		return unix.ENODEV
	case errors.Is(err, ErrNoAudioMode), errors.Is(err, ErrLinkInactive), errors.Is(err, ErrOpsRejected):
		return unix.EIO
	default:
		return unix.EINVAL
	}
}
