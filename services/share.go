package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 320
	MaxQRSize     = 1024
)

// ShareLinks builds the public page each participant opens to see who they
// give a present to.
type ShareLinks struct {
	baseURL string
}

func NewShareLinks(publicURL string) *ShareLinks {
	return &ShareLinks{baseURL: strings.TrimRight(publicURL, "/")}
}

func (l *ShareLinks) ParticipantURL(gameID uint, slug string) string {
	return fmt.Sprintf("%s/g/%d/%s", l.baseURL, gameID, url.PathEscape(slug))
}

// QRCode renders link as a PNG. Sizes outside (0, MaxQRSize] fall back to
// DefaultQRSize.
func (l *ShareLinks) QRCode(link string, size int) ([]byte, error) {
	if size <= 0 || size > MaxQRSize {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr generation failed: %w", err)
	}
	return png, nil
}
