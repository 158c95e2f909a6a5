// take-photo captures a single still image from a USB or Raspberry Pi
// camera, corrects its orientation using the camera calibration angle,
// and writes it to the images directory. Status and errors go to the
// FarmBot log endpoint when one is configured.
package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/N3v3l/Farmware-take-picture/internal/config"
	"github.com/N3v3l/Farmware-take-picture/internal/log"
	"github.com/N3v3l/Farmware-take-picture/pkg/camera"
	"github.com/N3v3l/Farmware-take-picture/pkg/images"
	"github.com/N3v3l/Farmware-take-picture/pkg/report"
	"github.com/N3v3l/Farmware-take-picture/pkg/rotate"
)

func main() {
	cfg := config.FromEnv()
	log.Init(cfg.LogLevel)

	runID := uuid.New()
	log.Debug("starting capture", "run_id", runID, "camera", cfg.Camera)

	reporter := report.NewFromEnv(cfg, runID)

	// The platform exports camera="RPI..." for board cameras; anything
	// else, including nothing, means a USB webcam.
	if strings.Contains(cfg.Camera, "RPI") {
		rpiPhoto(cfg, reporter)
		return
	}
	usbPhoto(cfg, reporter)
}

// usbPhoto runs the USB capture path: grab a frame, correct its
// orientation when calibration data exists, and write it out. Fatal
// conditions are reported and the run ends without a distinguished
// exit code.
func usbPhoto(cfg config.Config, reporter report.Reporter) {
	cam := camera.USBCamera{
		Settings: camera.LoadSettings(camera.ProvidersFromEnv()...),
		Reporter: reporter,
	}

	img, err := cam.Capture()
	if err != nil {
		log.Error("capture failed", "error", err)
		reporter.Send("Problem getting image.", report.Error)
		return
	}

	name := images.Filename(time.Now())
	final := img

	// Rotation is best effort: without usable calibration data the raw
	// frame is saved under the plain filename.
	angle, err := rotate.ParseAngle(cfg.CalibrationAngle)
	if err != nil {
		log.Debug("orientation correction skipped", "error", err)
	} else if corrected, cerr := rotate.Correct(img, angle); cerr != nil {
		log.Warn("orientation correction failed", "error", cerr)
	} else {
		img.Close()
		final = corrected
		name = images.RotatedPrefix + name
	}
	defer final.Close()

	path := images.Path(cfg.ImagesDir, name)
	if ok := gocv.IMWrite(path, final); !ok {
		log.Error("could not write image", "path", path)
		return
	}
	log.Info("Image saved", "path", path)
}

// rpiPhoto runs the board-camera path: the capture utility writes the
// JPEG straight to the output path, so there is nothing to rotate or
// save here.
func rpiPhoto(cfg config.Config, reporter report.Reporter) {
	path := images.Path(cfg.ImagesDir, images.Filename(time.Now()))

	cam := camera.RPiCamera{Reporter: reporter}
	if err := cam.Capture(path); err != nil {
		log.Error("capture failed", "error", err)
		return
	}
	log.Info("Image saved", "path", path)
}
