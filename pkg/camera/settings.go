// Package camera takes a single still photo from a USB webcam or the
// Raspberry Pi camera module.
package camera

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/N3v3l/Farmware-take-picture/internal/log"
)

// Sentinel defaults. A parameter equal to its sentinel means "leave
// the device default alone"; only differing values get reported as
// overrides.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultBrightness = 10.0
	DefaultContrast   = 10.0
	DefaultSaturation = 10.0
	DefaultHue        = 10.0
	DefaultGain       = 10.0
)

// EnvSettingsFile names an optional YAML settings file layered under
// the environment-supplied values.
const EnvSettingsFile = "TAKE_PHOTO_CONFIG"

// envPrefix is how the platform hands farmware its widget
// configuration: one environment variable per value.
const envPrefix = "take_photo_"

// Settings holds the per-capture device parameters. Width and height
// are integers; the color controls are floats, matching the device
// property types.
type Settings struct {
	Width      int
	Height     int
	Brightness float64
	Contrast   float64
	Saturation float64
	Hue        float64
	Gain       float64
}

// DefaultSettings returns Settings with every parameter at its
// sentinel.
func DefaultSettings() Settings {
	return Settings{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Brightness: DefaultBrightness,
		Contrast:   DefaultContrast,
		Saturation: DefaultSaturation,
		Hue:        DefaultHue,
		Gain:       DefaultGain,
	}
}

// Provider supplies named numeric capture parameters. The second
// return is false when the provider has no usable value for name.
type Provider interface {
	Value(name string) (float64, bool)
}

// EnvProvider reads values from take_photo_<name> environment
// variables. Unparsable values count as absent.
type EnvProvider struct{}

// Value implements Provider.
func (EnvProvider) Value(name string) (float64, bool) {
	raw, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FileProvider serves values from a YAML settings file keyed by the
// same names as the environment variables (brightness_val, width_val,
// and so on).
type FileProvider map[string]float64

// LoadFile reads a YAML settings file into a FileProvider.
func LoadFile(path string) (FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("camera: read settings file: %w", err)
	}
	var values map[string]float64
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("camera: parse settings file %s: %w", path, err)
	}
	return FileProvider(values), nil
}

// Value implements Provider.
func (p FileProvider) Value(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// ProvidersFromEnv returns the provider chain for a normal run:
// values pushed through the environment win over the optional settings
// file named by TAKE_PHOTO_CONFIG. A broken settings file is logged
// and skipped rather than failing the capture.
func ProvidersFromEnv() []Provider {
	providers := []Provider{EnvProvider{}}
	if path := os.Getenv(EnvSettingsFile); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			log.Warn("settings file ignored", "path", path, "error", err)
		} else {
			providers = append(providers, file)
		}
	}
	return providers
}

// LoadSettings assembles capture settings, asking each provider in
// order and falling back to the sentinel defaults.
func LoadSettings(providers ...Provider) Settings {
	return Settings{
		Width:      int(lookup(providers, "width_val", DefaultWidth)),
		Height:     int(lookup(providers, "height_val", DefaultHeight)),
		Brightness: lookup(providers, "brightness_val", DefaultBrightness),
		Contrast:   lookup(providers, "contrast_val", DefaultContrast),
		Saturation: lookup(providers, "saturation_val", DefaultSaturation),
		Hue:        lookup(providers, "hue_val", DefaultHue),
		Gain:       lookup(providers, "gain_val", DefaultGain),
	}
}

func lookup(providers []Provider, name string, fallback float64) float64 {
	for _, p := range providers {
		if v, ok := p.Value(name); ok {
			return v
		}
	}
	return fallback
}
