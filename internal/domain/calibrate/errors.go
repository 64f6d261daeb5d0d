package calibrate

import "errors"

// Sentinel kinds for calibration errors.
var (
	ErrInvalidAnchors = errors.New("invalid calibration anchors")
)
