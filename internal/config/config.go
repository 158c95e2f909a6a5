// Package config assembles take-photo configuration from the
// environment. Everything is read once at startup into a Config that
// gets passed into the components that need it.
package config

import "os"

// Environment variables read by take-photo. The lowercase "camera"
// name is what the platform exports; it is not a typo.
const (
	EnvCamera           = "camera"
	EnvOSVersion        = "FARMBOT_OS_VERSION"
	EnvFarmwareURL      = "FARMWARE_URL"
	EnvFarmwareToken    = "FARMWARE_TOKEN"
	EnvImagesDir        = "IMAGES_DIR"
	EnvCalibrationAngle = "CAMERA_CALIBRATION_total_rotation_angle"
	EnvLogLevel         = "LOG_LEVEL"
)

// DefaultCamera selects the USB capture path when the camera variable
// is unset.
const DefaultCamera = "USB"

// Config holds every externally supplied value for one capture run.
type Config struct {
	Camera           string // camera selector; contains "RPI" for the board camera
	OSVersion        string // platform version string, e.g. "6.4.1"
	FarmwareURL      string // remote log endpoint base URL; empty means unconfigured
	FarmwareToken    string // bearer token for the remote endpoint
	ImagesDir        string // output directory; empty means the built-in default
	CalibrationAngle string // raw total rotation angle; parsed by the rotate package
	LogLevel         string
}

// FromEnv reads the configuration once from the environment.
func FromEnv() Config {
	return Config{
		Camera:           getEnvOrDefault(EnvCamera, DefaultCamera),
		OSVersion:        os.Getenv(EnvOSVersion),
		FarmwareURL:      os.Getenv(EnvFarmwareURL),
		FarmwareToken:    os.Getenv(EnvFarmwareToken),
		ImagesDir:        os.Getenv(EnvImagesDir),
		CalibrationAngle: os.Getenv(EnvCalibrationAngle),
		LogLevel:         getEnvOrDefault(EnvLogLevel, "info"),
	}
}

// HasFarmware reports whether a remote log endpoint is configured.
func (c Config) HasFarmware() bool {
	return c.FarmwareURL != ""
}

// APIBaseURL returns the farmware API base for status reporting.
// Platform major versions above 5 moved the endpoints under api/v1/.
func (c Config) APIBaseURL() string {
	if majorVersion(c.OSVersion) > 5 {
		return c.FarmwareURL + "api/v1/"
	}
	return c.FarmwareURL
}

// majorVersion reads the leading digit of the platform version string.
// Unset or malformed versions count as 0.
func majorVersion(v string) int {
	if v == "" || v[0] < '0' || v[0] > '9' {
		return 0
	}
	return int(v[0] - '0')
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
