package enhance

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ThumbnailSize is the bounding box used by the session page.
const ThumbnailSize = 300

// Thumbnail writes a JPEG of the image at path scaled to fit within max x max.
// Images already smaller than the box are not enlarged.
func Thumbnail(w io.Writer, path string, max uint) error {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	thumb := resize.Thumbnail(max, max, src, resize.Lanczos3)
	if err := imaging.Encode(w, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
