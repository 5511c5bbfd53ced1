package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURL(t *testing.T) {
	raw := pngBytes(t, 3, 2)
	img, err := ParseDataURL(dataURL("image/png", raw))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, "png", img.Ext)
	assert.Equal(t, raw, img.Data)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
}

func TestParseDataURLRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not a data url", "hello", ErrMalformed},
		{"missing base64 marker", "data:image/png,abcd", ErrMalformed},
		{"bad base64", "data:image/png;base64,!!!!", ErrMalformed},
		{"text/plain", dataURL("text/plain", []byte("hi")), ErrUnsupported},
		{"svg", dataURL("image/svg+xml", []byte("<svg/>")), ErrUnsupported},
		{"empty payload", "data:image/jpeg;base64,", ErrEmpty},
		{"too large", dataURL("image/jpeg", make([]byte, 9<<20)), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURL(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDataURLAcceptsEveryType(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0x00}
	for mime, ext := range extensions {
		img, err := ParseDataURL(dataURL(strings.ToUpper(mime), payload))
		require.NoError(t, err, mime)
		assert.Equal(t, ext, img.Ext)
		assert.Zero(t, img.Width, "unreadable header yields no dimensions")
	}
}

func TestParseDataURLSizeBoundary(t *testing.T) {
	_, err := ParseDataURL(dataURL("image/gif", make([]byte, MaxSize)))
	assert.NoError(t, err)
	_, err = ParseDataURL(dataURL("image/gif", make([]byte, MaxSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestParseDataURLUnpadded(t *testing.T) {
	raw := []byte("ab")
	img, err := ParseDataURL("data:image/webp;base64," + base64.RawStdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, img.Data)
}

var reFilename = regexp.MustCompile(`^\d+-[0-9a-f-]{36}\.png$`)

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	a := Filename(now, "png")
	b := Filename(now, "png")
	assert.Regexp(t, reFilename, a)
	assert.True(t, strings.HasPrefix(a, "1735689600000-"))
	assert.NotEqual(t, a, b)
}

func TestDiskSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	sink := NewDiskSink(dir)
	img := Image{MIME: "image/png", Ext: "png", Data: []byte("x")}

	url, err := sink.Put(context.Background(), "a.png", img)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	_, err = sink.Put(context.Background(), "b.png", img)
	require.NoError(t, err, "existing directory is fine")
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/media/a.png", objectURL("https://cdn.example.com/media/", "a.png"))
	assert.Equal(t, "http://localhost:9000/quill/a.png", objectURL("http://localhost:9000/quill", "a.png"))
}
