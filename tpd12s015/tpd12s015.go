// Package tpd12s015 drives the TI TPD12S015 HDMI companion chip through sysfs GPIO lines.
// It implements the hdmi.PowerLink interface.
package tpd12s015

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// GPIO numbers on the OMAP4 reference boards.
const (
	DefaultCtCpHpdGPIO = 60
	DefaultLsOeGPIO    = 41
	DefaultHpdGPIO     = 63
)

// DefaultRoot is the sysfs GPIO class directory.
const DefaultRoot = "/sys/class/gpio"

// Config selects the GPIO lines of the chip.
type Config struct {
	Root    string // Defaults to DefaultRoot
	CtCpHpd int    // Sink power and hotplug detect enable (output), defaults to DefaultCtCpHpdGPIO
	LsOe    int    // Level shifter output enable (output), defaults to DefaultLsOeGPIO
	Hpd     int    // Hotplug detect (input), defaults to DefaultHpdGPIO
}

// Device is an opened TPD12S015.
type Device struct {
	mu      sync.Mutex
	root    string
	ctCpHpd int
	lsOe    int
	hpd     int
}

// Open exports the three GPIO lines if needed and configures both outputs low.
// If config is nil, or leaves a line at zero, the reference board lines are used.
func Open(config *Config) (*Device, error) {
	if config == nil {
		config = &Config{}
	}

	d := &Device{
		root:    config.Root,
		ctCpHpd: config.CtCpHpd,
		lsOe:    config.LsOe,
		hpd:     config.Hpd,
	}

	if d.root == "" {
		d.root = DefaultRoot
	}

	if d.ctCpHpd == 0 {
		d.ctCpHpd = DefaultCtCpHpdGPIO
	}

	if d.lsOe == 0 {
		d.lsOe = DefaultLsOeGPIO
	}

	if d.hpd == 0 {
		d.hpd = DefaultHpdGPIO
	}

	gpios := []struct {
		gpio      int
		direction string
		label     string
	}{
		{d.ctCpHpd, "low", "hdmi_ct_cp_hpd"},
		{d.lsOe, "low", "hdmi_ls_oe"},
		{d.hpd, "in", "hdmi_hpd"},
	}

	for _, g := range gpios {
		if err := d.request(g.gpio, g.direction); err != nil {
			return nil, fmt.Errorf("request GPIO %d (%s) failed: %w", g.gpio, g.label, err)
		}
	}

	return d, nil
}

// SetPower drives CT_CP_HPD, which powers the sink side and enables hotplug detection.
func (d *Device) SetPower(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.setValue(d.ctCpHpd, on); err != nil {
		return fmt.Errorf("unable to power up sink: %w", err)
	}

	return nil
}

// SetDataLink drives LS_OE, which enables the level shifters of the HDMI data lines.
// It does not touch the sink power line.
func (d *Device) SetDataLink(enable bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.setValue(d.lsOe, enable); err != nil {
		return fmt.Errorf("unable to enable HDMI data link: %w", err)
	}

	return nil
}

// Detect reports whether a sink asserts hotplug detect.
func (d *Device) Detect() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, err := readAttr(d.gpioPath(d.hpd, "value"))
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(value) == "1", nil
}

// Close drives both outputs low. Both lines are written even if the first write fails.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return errors.Join(d.setValue(d.lsOe, false), d.setValue(d.ctCpHpd, false))
}

func (d *Device) request(gpio int, direction string) error {
	dir := d.gpioPath(gpio, "")
	if err := unix.Access(dir, unix.F_OK); err != nil {
		if err := writeAttr(d.root+"/export", strconv.Itoa(gpio)); err != nil {
			return err
		}
	}

	return writeAttr(d.gpioPath(gpio, "direction"), direction)
}

func (d *Device) setValue(gpio int, high bool) error {
	value := "0"
	if high {
		value = "1"
	}

	return writeAttr(d.gpioPath(gpio, "value"), value)
}

func (d *Device) gpioPath(gpio int, attr string) string {
	path := d.root + "/gpio" + strconv.Itoa(gpio)
	if attr != "" {
		path += "/" + attr
	}

	return path
}

func writeAttr(path, value string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_TRUNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer unix.Close(fd)

	if _, err := unix.Write(fd, []byte(value)); err != nil {
		return &os.PathError{Op: "write", Path: path, Err: err}
	}

	return nil
}

func readAttr(path string) (string, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return "", &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer unix.Close(fd)

	buf := make([]byte, 16)
	n, err := unix.Read(fd, buf)
	if err != nil {
		return "", &os.PathError{Op: "read", Path: path, Err: err}
	}

	return string(buf[:n]), nil
}
