package docx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gomutex/godocx/common/units"
	godocxdoc "github.com/gomutex/godocx/docx"

	"github.com/mohamedhussein2626/backend-part/internal/raster"
)

const (
	pixelsPerInch = 96

	// ImageWidth and ImageHeight are the display size, in pixels, of an
	// embedded picture.
	ImageWidth  = 400
	ImageHeight = 300
)

// FromImage builds a document holding a single picture displayed at
// ImageWidth x ImageHeight. JPEG, PNG and GIF data is embedded as is; other
// formats are converted to PNG first.
func FromImage(data []byte) ([]byte, error) {
	img, format, err := raster.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	switch format {
	case raster.JPEG, raster.PNG, raster.GIF:
	default:
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("re-encode image: %w", err)
		}
		data, format = buf.Bytes(), raster.PNG
	}

	return build(func(doc *godocxdoc.RootDoc, dir string) error {
		path := filepath.Join(dir, "image1"+format.Ext())
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("stage image: %w", err)
		}
		_, err := doc.AddPicture(path,
			units.Inch(float64(ImageWidth)/pixelsPerInch),
			units.Inch(float64(ImageHeight)/pixelsPerInch))
		if err != nil {
			return fmt.Errorf("embed image: %w", err)
		}
		return nil
	})
}
