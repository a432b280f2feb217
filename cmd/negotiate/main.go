package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gen2brain/hdmi"
	"github.com/gen2brain/hdmi/tpd12s015"
)

func main() {
	var (
		profilePath string
		logFile     string
		unplug      bool
		verbose     bool
	)

	flag.StringVar(&profilePath, "profile", "", "The YAML board profile.")
	flag.StringVar(&logFile, "log-file", "", "Also write the log to this file, rotated.")
	flag.BoolVar(&unplug, "unplug", false, "Simulate a link loss after the negotiation.")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <audio-file>\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Negotiates the HDMI audio configuration of a WAV or MP3 file and prints the records.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	prof, err := loadProfile(profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(prof, logFile, verbose)

	if err := run(flag.Arg(0), prof, unplug, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (errno %d)\n", err, hdmi.Errno(err))
		os.Exit(1)
	}
}

func newLogger(prof profile, logFile string, verbose bool) *log.Logger {
	var writers []io.Writer
	if verbose {
		writers = append(writers, os.Stderr)
	}

	if logFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    prof.Logs.MaxSizeMB,
			MaxAge:     prof.Logs.MaxAgeDays,
			MaxBackups: prof.Logs.MaxBackups,
			Compress:   prof.Logs.Compress,
		})
	}

	if len(writers) == 0 {
		return log.New(io.Discard, "", 0)
	}

	return log.New(io.MultiWriter(writers...), "negotiate: ", log.LstdFlags|log.Lmicroseconds)
}

func run(path string, prof profile, unplug bool, logger *log.Logger) error {
	decoder, file, err := openDecoder(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if decoder.IsFloat() {
		return fmt.Errorf("%w: floating-point source", hdmi.ErrUnsupportedSampleFormat)
	}

	params, err := hdmi.ParamsFromFormat(decoder.Format(), int(decoder.BitDepth()))
	if err != nil {
		return err
	}
	params.ChannelMask = prof.ChannelMask

	duration, err := decoder.Duration()
	if err != nil {
		logger.Printf("duration of %s: %v", path, err)
	}

	fmt.Printf("Source:      %s, %s, %d Hz, %d ch, %s\n", path, params.Format, params.Rate, params.Channels, duration)
	fmt.Printf("Display:     %d kHz, deep color %d\n", prof.PixelClock, prof.DeepColor)

	var power hdmi.PowerLink = &tracePower{w: os.Stdout}
	if cfg := prof.tpdConfig(); cfg != nil {
		dev, err := tpd12s015.Open(cfg)
		if err != nil {
			return err
		}
		defer dev.Close()

		if connected, err := dev.Detect(); err == nil {
			fmt.Printf("Hotplug:     connected=%t\n", connected)
		}

		power = dev
	}

	notifier := hdmi.NewLinkNotifier()

	coord := hdmi.NewCoordinator(power, &hdmi.CoordinatorConfig{Logger: logger})
	coord.Register(notifier)
	defer coord.Close()

	state, err := prof.linkState()
	if err != nil {
		return err
	}

	notifier.Publish(hdmi.LinkEvent{State: state})

	ops := &traceOps{w: os.Stdout, softwareCTS: prof.SoftwareCTS}
	display := staticDisplay{pclk: prof.PixelClock, dvi: prof.DVI}

	codec, err := hdmi.NewCodec(ops, display, coord, &hdmi.CodecConfig{
		DeepColor: hdmi.DeepColor(prof.DeepColor),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer codec.Close()

	if err := codec.Startup(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	core, err := codec.Negotiate(params)
	if err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}

	fmt.Printf("Result:      N=%d CTS=%d (%s CTS)\n", core.N, core.CTS, core.CTSMode)

	if unplug {
		notifier.Publish(hdmi.LinkEvent{State: hdmi.LinkDisabled, Stream: printStream{w: os.Stdout}})

		if codec.Enabled() {
			return errors.New("audio still enabled after link loss")
		}
	}

	return nil
}
