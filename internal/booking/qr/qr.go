// Package qr renders show poster QR codes. The code encodes the public URL
// of the show detail page so a printed poster links straight to it.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

type Generator struct {
	PublicURL string
}

func NewGenerator(publicURL string) *Generator {
	return &Generator{PublicURL: publicURL}
}

// ShowPNG returns a 256x256 PNG QR code for the show's detail page.
func (g *Generator) ShowPNG(showID int64) ([]byte, error) {
	url := fmt.Sprintf("%s/shows/%d", g.PublicURL, showID)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR for show %d: %w", showID, err)
	}
	return png, nil
}
