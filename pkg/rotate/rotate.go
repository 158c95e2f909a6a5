// Package rotate corrects camera mount misalignment using a measured
// calibration angle.
//
// The total rotation is decomposed into whole 90-degree turns, which
// reorder pixels without interpolation, plus a residual affine
// rotation bounded to 45 degrees in magnitude. Near-quarter-turn
// misalignment, the common case, therefore picks up almost no
// interpolation blur.
package rotate

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"gocv.io/x/gocv"
)

// ErrNoAngle means camera calibration has not been performed, so no
// correction can be applied.
var ErrNoAngle = errors.New("rotate: no calibration angle")

// ParseAngle converts the raw calibration value from the environment
// into degrees. Empty input maps to ErrNoAngle.
func ParseAngle(raw string) (float64, error) {
	if raw == "" {
		return 0, ErrNoAngle
	}
	angle, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("rotate: bad calibration angle %q: %w", raw, err)
	}
	return angle, nil
}

// Decompose splits a total rotation angle into whole 90-degree turns
// to remove and the residual angle left for affine correction.
// Positive turns are counter-clockwise. A remainder strictly above 45
// degrees rolls into one more turn in the direction of the angle's
// sign, so the residual always lands in [-45, 45]; exactly 45 stays
// with the fewer-turns decomposition.
func Decompose(angle float64) (turns int, residual float64) {
	sign := 1
	if angle < 0 {
		sign = -1
	}
	turns = -int(angle / 90)
	remainder := math.Mod(math.Abs(angle), 90)
	if remainder > 45 {
		turns -= sign
	}
	residual = angle + 90*float64(turns)
	return turns, residual
}

// Correct returns img rotated upright according to the calibration
// angle. The quarter turns may swap width and height; the residual
// warp keeps the dimensions of the turned image. The caller owns the
// returned Mat; img is left untouched.
func Correct(img gocv.Mat, angle float64) (gocv.Mat, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return gocv.Mat{}, fmt.Errorf("rotate: invalid calibration angle %v", angle)
	}

	turns, residual := Decompose(angle)

	turned := quarterTurn(img, turns)
	defer turned.Close()

	width := turned.Cols()
	height := turned.Rows()
	center := image.Pt(width/2, height/2)

	matrix := gocv.GetRotationMatrix2D(center, residual, 1)
	defer matrix.Close()

	out := gocv.NewMat()
	gocv.WarpAffine(turned, &out, matrix, image.Pt(width, height))
	return out, nil
}

// quarterTurn applies k lossless 90-degree rotations, positive k
// counter-clockwise, matching the turn convention of Decompose.
func quarterTurn(img gocv.Mat, k int) gocv.Mat {
	out := gocv.NewMat()
	switch ((k % 4) + 4) % 4 {
	case 1:
		gocv.Rotate(img, &out, gocv.Rotate90CounterClockwise)
	case 2:
		gocv.Rotate(img, &out, gocv.Rotate180Clockwise)
	case 3:
		gocv.Rotate(img, &out, gocv.Rotate90Clockwise)
	default:
		img.CopyTo(&out)
	}
	return out
}
