package camera

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/N3v3l/Farmware-take-picture/internal/log"
	"github.com/N3v3l/Farmware-take-picture/pkg/report"
)

const (
	primaryPort   = 0
	secondaryPort = 1

	// discardFrames is how many frames to throw away so auto-exposure
	// and white balance converge before the frame we keep.
	discardFrames = 20

	// settleDelay gives the driver a moment between open and the first
	// property write.
	settleDelay = 100 * time.Millisecond
)

// ErrNoFrame means the device opened but returned no image.
var ErrNoFrame = errors.New("camera: no frame returned")

// USBCamera captures one still from a V4L webcam through OpenCV.
type USBCamera struct {
	Settings Settings
	Reporter report.Reporter

	// devDir overrides the device node directory in tests.
	devDir string
}

// Capture probes for a device, opens it, pushes the configured
// parameters and returns a single frame after the auto-adjust discard
// window. The device is released before returning. The caller owns
// the returned Mat.
func (c *USBCamera) Capture() (gocv.Mat, error) {
	port := c.probe()

	cam, err := gocv.OpenVideoCapture(port)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("camera: open video%d: %w", port, err)
	}
	defer cam.Close()

	time.Sleep(settleDelay)
	c.apply(cam)

	cam.Grab(discardFrames)

	img := gocv.NewMat()
	if ok := cam.Read(&img); !ok || img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrNoFrame
	}
	return img, nil
}

// probe looks for a device node at the primary port, then the
// secondary. Absence is non-fatal: acquisition itself is the
// authoritative check, so the chosen port is returned either way and
// a single not-detected event is reported when both nodes are missing.
func (c *USBCamera) probe() int {
	port := primaryPort
	if c.deviceExists(port) {
		return port
	}
	log.Info(fmt.Sprintf("No camera detected at video%d.", port))
	port = secondaryPort
	log.Info(fmt.Sprintf("Trying video%d...", port))
	if !c.deviceExists(port) {
		log.Info(fmt.Sprintf("No camera detected at video%d.", port))
		c.Reporter.Send("USB Camera not detected.", report.Error)
	}
	return port
}

func (c *USBCamera) deviceExists(port int) bool {
	dir := c.devDir
	if dir == "" {
		dir = "/dev"
	}
	_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("video%d", port)))
	return err == nil
}

// apply pushes the capture parameters to the device and reports each
// override.
func (c *USBCamera) apply(cam *gocv.VideoCapture) {
	for _, o := range overrides(c.Settings) {
		cam.Set(o.prop, o.value)
		if o.message != "" {
			c.Reporter.Send(o.message, report.Info)
		}
	}
}

// override is one device property write, with the info message to
// report when it differs from the sentinel default.
type override struct {
	prop    gocv.VideoCaptureProperties
	value   float64
	message string
}

// overrides lists the property writes for s. The resolution is always
// pushed so the device never stays at a stale mode; the color controls
// are only touched when the configured value differs from its
// sentinel, and only those writes are reported.
func overrides(s Settings) []override {
	o := make([]override, 0, 7)

	if s.Width != DefaultWidth {
		o = append(o, override{gocv.VideoCaptureFrameWidth, float64(s.Width),
			fmt.Sprintf("Resolution width:%d", s.Width)})
	} else {
		o = append(o, override{gocv.VideoCaptureFrameWidth, DefaultWidth, ""})
	}

	if s.Height != DefaultHeight {
		o = append(o, override{gocv.VideoCaptureFrameHeight, float64(s.Height),
			fmt.Sprintf("Resolution height:%d", s.Height)})
	} else {
		o = append(o, override{gocv.VideoCaptureFrameHeight, DefaultHeight, ""})
	}

	if s.Brightness != DefaultBrightness {
		o = append(o, override{gocv.VideoCaptureBrightness, s.Brightness, "set brightness"})
	}
	if s.Contrast != DefaultContrast {
		o = append(o, override{gocv.VideoCaptureContrast, s.Contrast, "set contrast"})
	}
	if s.Saturation != DefaultSaturation {
		o = append(o, override{gocv.VideoCaptureSaturation, s.Saturation, "set saturation"})
	}
	if s.Hue != DefaultHue {
		o = append(o, override{gocv.VideoCaptureHue, s.Hue, "set hue"})
	}
	if s.Gain != DefaultGain {
		o = append(o, override{gocv.VideoCaptureGain, s.Gain, "set gain"})
	}

	return o
}
