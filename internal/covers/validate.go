package covers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MinDimension is the smallest width or height accepted for a fetched cover.
// Lookup services answer unknown ISBNs with a tiny placeholder image instead
// of an error; anything under this size is assumed to be one.
const MinDimension = 200

// ErrTooSmall marks an image that decoded fine but is below MinDimension.
var ErrTooSmall = errors.New("image below minimum dimensions")

// Validate decodes data as an image and checks it against MinDimension.
// Returns the decoded dimensions, or an error when the bytes are not a
// decodable image or either dimension is below the threshold.
func Validate(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("not a decodable image: %w", err)
	}
	if cfg.Width < MinDimension || cfg.Height < MinDimension {
		return cfg.Width, cfg.Height, fmt.Errorf("%w (%dx%d, likely placeholder)", ErrTooSmall, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}
