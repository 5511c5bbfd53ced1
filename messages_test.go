package quill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLocalizerLanguage(t *testing.T) {
	l := NewLocalizer()
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.Spanish},
		{"es-MX", language.Spanish},
		{"en-GB,en;q=0.9", language.English},
		{"de,en;q=0.5", language.English},
		{"ja", language.Spanish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Language(tt.header), "header %q", tt.header)
	}
}

func TestLocalizerMessage(t *testing.T) {
	l := NewLocalizer()

	err := conflictError(msgSlugTaken, "hola")
	assert.Equal(t, `Ya existe una entrada con el slug "hola".`, l.Message("es", err))
	assert.Equal(t, `A post with the slug "hola" already exists.`, l.Message("en", err))

	wrapped := unexpected(errors.New("disk on fire"), "write posts")
	assert.Equal(t, "Algo salió mal. Inténtalo de nuevo.", l.Message("es", wrapped))
	assert.Equal(t, msgUnexpected, l.Message("en", errors.New("raw")))
}

func TestEveryMessageHasASpanishTranslation(t *testing.T) {
	keys := []string{
		msgUnexpected, msgNotFound, msgInvalidJSON, msgRequestTooLarge,
		msgTitleRequired, msgSlugRequired, msgContentRequired, msgScheduleRequired,
		msgSlugTaken, msgPostNotFound, msgCategoryRequired, msgCategoryExists,
		msgCategoryDefault, msgCategoryNotFound, msgProfileInvalid, msgImageRequired,
		msgImageMalformed, msgImageUnsupported, msgImageEmpty, msgImageTooLarge,
		msgUploadRateLimited, msgLogMessageRequired, msgLogLevelUnsupported,
	}
	for _, k := range keys {
		assert.NotEmpty(t, spanish[k], k)
	}
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, 400, KindOf(validationError(msgTitleRequired)).Status())
	assert.Equal(t, 409, KindOf(conflictError(msgCategoryExists, "a")).Status())
	assert.Equal(t, 404, KindOf(notFoundError(msgPostNotFound)).Status())
	assert.Equal(t, 500, KindOf(errors.New("plain")).Status())
	assert.Nil(t, unexpected(nil, "noop"))

	v := validationError(msgTitleRequired)
	assert.Same(t, v, unexpected(v, "wrap"))
}
