package quill

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/quill/media"
)

type uploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	Size     int    `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

func (a *App) handleUpload(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return &Error{Kind: KindRateLimited, Key: msgUploadRateLimited}
	}
	var body struct {
		DataURL any `json:"dataUrl"`
	}
	if err := decodeBody(c, &body); err != nil {
		return err
	}
	dataURL, _ := body.DataURL.(string)
	if dataURL == "" {
		return validationError(msgImageRequired)
	}
	img, err := media.ParseDataURL(dataURL)
	if err != nil {
		return uploadError(err)
	}
	filename := media.Filename(a.now(), img.Ext)
	url, err := a.sink.Put(c.Request().Context(), filename, img)
	if err != nil {
		return unexpected(err, "store upload")
	}
	a.Log.Info("image uploaded",
		zap.String("filename", filename),
		zap.String("mime", img.MIME),
		zap.Int("bytes", len(img.Data)))
	return c.JSON(http.StatusCreated, uploadResponse{
		URL:      url,
		Filename: filename,
		MIME:     img.MIME,
		Size:     len(img.Data),
		Width:    img.Width,
		Height:   img.Height,
	})
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return &Error{Kind: KindTooLarge, Key: msgImageTooLarge, Err: err}
	case errors.Is(err, media.ErrEmpty):
		return &Error{Kind: KindValidation, Key: msgImageEmpty, Err: err}
	case errors.Is(err, media.ErrUnsupported):
		return &Error{Kind: KindValidation, Key: msgImageUnsupported, Err: err}
	}
	return &Error{Kind: KindValidation, Key: msgImageMalformed, Err: err}
}
