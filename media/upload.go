// Package media validates inline image uploads and stores them through a
// Sink.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxSize is the largest accepted decoded payload.
const MaxSize = 8 << 20

var (
	ErrMalformed   = errors.New("media: malformed data url")
	ErrUnsupported = errors.New("media: unsupported image type")
	ErrEmpty       = errors.New("media: empty image")
	ErrTooLarge    = errors.New("media: image too large")
)

// extensions maps each accepted MIME type to the file extension it is
// stored under.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/avif": "avif",
}

var reDataURL = regexp.MustCompile(`^data:([\w.+/-]+);base64,(.*)$`)

// Image is a decoded upload ready to be stored.
type Image struct {
	MIME   string
	Ext    string
	Data   []byte
	Width  int
	Height int
}

// ParseDataURL decodes a base64 data URL and validates its type and size.
// The checks run in order: shape, MIME type, then payload size, so an empty
// payload and an oversized one fail with distinct errors.
func ParseDataURL(s string) (Image, error) {
	m := reDataURL.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Image{}, ErrMalformed
	}
	mime := strings.ToLower(m[1])
	ext, ok := extensions[mime]
	if !ok {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	payload := stripSpace(m[2])
	if payload == "" {
		return Image{}, ErrEmpty
	}
	if base64.StdEncoding.DecodedLen(len(payload))-2 > MaxSize {
		return Image{}, ErrTooLarge
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case len(data) == 0:
		return Image{}, ErrEmpty
	case len(data) > MaxSize:
		return Image{}, ErrTooLarge
	}
	img := Image{MIME: mime, Ext: ext, Data: data}
	img.Width, img.Height = Inspect(data)
	return img, nil
}

// Inspect returns the pixel dimensions of data, or zeros when the format has
// no registered decoder or the header is unreadable.
func Inspect(data []byte) (width, height int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// Filename returns a fresh name of the form <unix millis>-<uuid>.<ext>.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), uuid.NewString(), ext)
}

func decodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
