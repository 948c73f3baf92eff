package assets

import (
	"encoding/base64"
	"strings"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// image is a decoded "data:<type>;base64,<payload>" upload.
type image struct {
	ContentType string
	Data        []byte
}

func parseDataURL(raw string) (*image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return nil, domain.ErrUnsupportedImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, domain.ErrUnsupportedImage
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrUnsupportedImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, domain.ErrUnsupportedImage
	}
	return &image{ContentType: contentType, Data: data}, nil
}

// extension maps the few formats browsers send to a file suffix.
func (i *image) extension() string {
	switch i.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
