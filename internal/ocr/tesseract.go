package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// NewTesseractPool builds a pool of Tesseract clients for the given
// languages, "eng" when none are set.
func NewTesseractPool(languages []string, size int) (*Pool, error) {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return NewPool(size, func() (Engine, error) {
		client := gosseract.NewClient()
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set tesseract languages %v: %w", languages, err)
		}
		return client, nil
	})
}
