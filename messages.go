package quill

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Client-facing messages. The English text doubles as the catalog key.
const (
	msgUnexpected          = "Something went wrong. Please try again."
	msgNotFound            = "Not found."
	msgInvalidJSON         = "The request body must be valid JSON."
	msgRequestTooLarge     = "The request body is too large."
	msgTitleRequired       = "Title is required."
	msgSlugRequired        = "Slug is required."
	msgContentRequired     = "Published and scheduled posts need at least one section or HTML content."
	msgScheduleRequired    = "Scheduled posts need a valid scheduledAt date."
	msgSlugTaken           = "A post with the slug %q already exists."
	msgPostNotFound        = "Post not found."
	msgCategoryRequired    = "Category name is required."
	msgCategoryExists      = "The category %q already exists."
	msgCategoryDefault     = "The default category %q cannot be deleted."
	msgCategoryNotFound    = "Category %q not found."
	msgProfileInvalid      = "The profile must be a JSON object."
	msgImageRequired       = "dataUrl is required."
	msgImageMalformed      = "The image must be sent as a base64 data URL."
	msgImageUnsupported    = "Unsupported image type. Use JPEG, PNG, WebP, GIF or AVIF."
	msgImageEmpty          = "The image is empty."
	msgImageTooLarge       = "The image is larger than 8 MB."
	msgUploadRateLimited   = "Too many uploads. Try again in a minute."
	msgLogMessageRequired  = "Log message is required."
	msgLogLevelUnsupported = "Unknown log level %q."
)

var spanish = map[string]string{
	msgUnexpected:          "Algo salió mal. Inténtalo de nuevo.",
	msgNotFound:            "No encontrado.",
	msgInvalidJSON:         "El cuerpo de la petición debe ser JSON válido.",
	msgRequestTooLarge:     "El cuerpo de la petición es demasiado grande.",
	msgTitleRequired:       "El título es obligatorio.",
	msgSlugRequired:        "El slug es obligatorio.",
	msgContentRequired:     "Las entradas publicadas o programadas necesitan al menos una sección o contenido HTML.",
	msgScheduleRequired:    "Las entradas programadas necesitan una fecha scheduledAt válida.",
	msgSlugTaken:           "Ya existe una entrada con el slug %q.",
	msgPostNotFound:        "Entrada no encontrada.",
	msgCategoryRequired:    "El nombre de la categoría es obligatorio.",
	msgCategoryExists:      "La categoría %q ya existe.",
	msgCategoryDefault:     "La categoría por defecto %q no se puede eliminar.",
	msgCategoryNotFound:    "No se encontró la categoría %q.",
	msgProfileInvalid:      "El perfil debe ser un objeto JSON.",
	msgImageRequired:       "dataUrl es obligatorio.",
	msgImageMalformed:      "La imagen debe enviarse como data URL en base64.",
	msgImageUnsupported:    "Tipo de imagen no soportado. Usa JPEG, PNG, WebP, GIF o AVIF.",
	msgImageEmpty:          "La imagen está vacía.",
	msgImageTooLarge:       "La imagen supera los 8 MB.",
	msgUploadRateLimited:   "Demasiadas subidas. Inténtalo de nuevo en un minuto.",
	msgLogMessageRequired:  "El mensaje del log es obligatorio.",
	msgLogLevelUnsupported: "Nivel de log desconocido %q.",
}

// headerAcceptLanguage is not among echo's header constants.
const headerAcceptLanguage = "Accept-Language"

// supportedLanguages lists the locales messages are served in; the first one
// is used when Accept-Language matches nothing.
var supportedLanguages = []language.Tag{language.Spanish, language.English}

// Localizer picks a printer for a request's Accept-Language header.
type Localizer struct {
	cat     catalog.Catalog
	matcher language.Matcher
}

// NewLocalizer builds the message catalog.
func NewLocalizer() *Localizer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range spanish {
		// SetString only fails on malformed tags.
		_ = b.SetString(language.Spanish, key, text)
		_ = b.SetString(language.English, key, key)
	}
	return &Localizer{cat: b, matcher: language.NewMatcher(supportedLanguages)}
}

// Language returns the supported base language that best matches the
// Accept-Language header value.
func (l *Localizer) Language(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0]
	}
	_, idx, _ := l.matcher.Match(tags...)
	return supportedLanguages[idx]
}

// Printer returns a message printer for the Accept-Language header value.
func (l *Localizer) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(l.Language(acceptLanguage), message.Catalog(l.cat))
}

// Message localizes err for the client. Errors that are not *Error, and
// unexpected ones, yield the generic message so causes never leak.
func (l *Localizer) Message(acceptLanguage string, err error) string {
	p := l.Printer(acceptLanguage)
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindUnexpected {
		return p.Sprintf(msgUnexpected)
	}
	return p.Sprintf(e.Key, e.Args...)
}
