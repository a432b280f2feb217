package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gen2brain/hdmi"
	"github.com/gen2brain/hdmi/tpd12s015"
)

type gpioConfig struct {
	Root    string `yaml:"root"`
	CtCpHpd int    `yaml:"ctCpHpd"`
	LsOe    int    `yaml:"lsOe"`
	Hpd     int    `yaml:"hpd"`
}

type logConfig struct {
	MaxSizeMB  int  `yaml:"maxSizeMB"`
	MaxAgeDays int  `yaml:"maxAgeDays"`
	MaxBackups int  `yaml:"maxBackups"`
	Compress   bool `yaml:"compress"`
}

// profile describes the board the negotiation runs against.
type profile struct {
	PixelClock  uint32      `yaml:"pixelClock"` // kHz
	DeepColor   uint32      `yaml:"deepColor"`
	SoftwareCTS bool        `yaml:"softwareCTS"`
	DVI         bool        `yaml:"dvi"`
	Link        string      `yaml:"link"`
	ChannelMask uint8       `yaml:"channelMask"`
	GPIO        *gpioConfig `yaml:"gpio"`
	Logs        logConfig   `yaml:"logs"`
}

func defaultProfile() profile {
	return profile{
		PixelClock: 74250,
		DeepColor:  uint32(hdmi.DefaultDeepColor),
		Link:       "active",
	}
}

// loadProfile reads a YAML profile. An empty path returns the defaults.
func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return p, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("decode %s: %w", path, err)
	}

	if _, err := p.linkState(); err != nil {
		return p, err
	}

	if p.DeepColor == 0 {
		p.DeepColor = uint32(hdmi.DefaultDeepColor)
	}

	if p.Logs.MaxSizeMB <= 0 {
		p.Logs.MaxSizeMB = 10
	}

	if p.Logs.MaxAgeDays <= 0 {
		p.Logs.MaxAgeDays = 7
	}

	if p.Logs.MaxBackups <= 0 {
		p.Logs.MaxBackups = 3
	}

	return p, nil
}

func (p profile) linkState() (hdmi.LinkState, error) {
	switch strings.ToLower(strings.TrimSpace(p.Link)) {
	case "", "active":
		return hdmi.LinkActive, nil
	case "disabled":
		return hdmi.LinkDisabled, nil
	case "suspended":
		return hdmi.LinkSuspended, nil
	default:
		return hdmi.LinkDisabled, fmt.Errorf("invalid link state %q", p.Link)
	}
}

// tpdConfig returns the companion chip lines, or nil if the profile has none.
// Lines left at zero take the reference board defaults in tpd12s015.Open.
func (p profile) tpdConfig() *tpd12s015.Config {
	if p.GPIO == nil {
		return nil
	}

	return &tpd12s015.Config{
		Root:    p.GPIO.Root,
		CtCpHpd: p.GPIO.CtCpHpd,
		LsOe:    p.GPIO.LsOe,
		Hpd:     p.GPIO.Hpd,
	}
}
