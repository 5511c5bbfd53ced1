package quill

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zapcore"
)

func (a *App) handleListLogs(c echo.Context) error {
	entries := a.Journal.Export()
	return c.JSON(http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
		"policy":  a.Journal.Policy().String(),
	})
}

// handleRecordLog accepts a client-side log entry. It answers 202 when the
// entry was kept and 204 when the level policy filtered it out.
func (a *App) handleRecordLog(c echo.Context) error {
	var body struct {
		Level   string         `json:"level"`
		Message string         `json:"message"`
		Context map[string]any `json:"context"`
	}
	if err := decodeBody(c, &body); err != nil {
		return err
	}
	level, err := parseLevel(body.Level)
	if err != nil {
		return validationError(msgLogLevelUnsupported, body.Level)
	}
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		return validationError(msgLogMessageRequired)
	}
	ctx := body.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	ctx["source"] = "client"
	if !a.Journal.Record(level, msg, ctx) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusAccepted, map[string]any{"recorded": true})
}

func (a *App) handleClearLogs(c echo.Context) error {
	a.Journal.Clear()
	return c.NoContent(http.StatusNoContent)
}

// parseLevel reads a client log level. A blank level is info and "warning"
// is accepted for warn.
func parseLevel(s string) (zapcore.Level, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	return zapcore.ParseLevel(s)
}
