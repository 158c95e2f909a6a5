package camera

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/N3v3l/Farmware-take-picture/pkg/report"
)

// rpiBinary is the still-capture utility shipped with Raspberry Pi OS.
const rpiBinary = "raspistill"

// RPiCamera shells out to the board camera's still-capture utility,
// which writes the JPEG directly to the output path. Orientation
// correction does not apply on this path.
type RPiCamera struct {
	Reporter report.Reporter

	// Binary overrides the capture command in tests.
	Binary string
}

// Capture writes a 640x480 still to path. The utility's exit code is
// the only success signal. A failed capture and a missing camera
// produce distinct error events.
func (c *RPiCamera) Capture(path string) error {
	bin := c.Binary
	if bin == "" {
		bin = rpiBinary
	}

	err := exec.Command(bin, "-w", "640", "-h", "480", "-o", path).Run()
	switch {
	case err == nil:
		return nil
	case errors.As(err, new(*exec.ExitError)):
		c.Reporter.Send("Problem getting image.", report.Error)
		return fmt.Errorf("camera: %s: %w", bin, err)
	default:
		// The binary itself could not be run: no board camera stack.
		c.Reporter.Send("Raspberry Pi Camera not detected.", report.Error)
		return fmt.Errorf("camera: %s unavailable: %w", bin, err)
	}
}
