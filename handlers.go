package quill

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/quill/content"
)

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListCategories(c echo.Context) error {
	list, err := a.Categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": list, "total": len(list)})
}

func (a *App) handleCreateCategory(c echo.Context) error {
	var body struct {
		Name any `json:"name"`
	}
	if err := decodeBody(c, &body); err != nil {
		return err
	}
	name, _ := body.Name.(string)
	list, err := a.Categories.Create(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"categories": list})
}

func (a *App) handleDeleteCategory(c echo.Context) error {
	name := pathParam(c, "name")
	r, err := a.Categories.RemoveByName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	if !r.Removed {
		if r.Reason == ReasonDefault {
			return validationError(msgCategoryDefault, content.DefaultCategory)
		}
		return notFoundError(msgCategoryNotFound, r.Name)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"categories":      r.Categories,
		"reassignedCount": r.Reassigned,
	})
}

func (a *App) handleGetProfile(c echo.Context) error {
	p, err := a.Store.ReadProfile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"profile": p})
}

func (a *App) handleUpdateProfile(c echo.Context) error {
	var patch map[string]any
	if err := decodeBody(c, &patch); err != nil {
		return err
	}
	if patch == nil {
		return validationError(msgProfileInvalid)
	}
	ctx := c.Request().Context()
	a.Store.mu.Lock()
	defer a.Store.mu.Unlock()
	current, err := a.Store.ReadProfile(ctx)
	if err != nil {
		return err
	}
	p, err := a.Store.WriteProfile(ctx, content.MergeProfile(current, patch))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"profile": p})
}

func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": posts, "total": len(posts)})
}

func (a *App) handleCreatePost(c echo.Context) error {
	var raw map[string]any
	if err := decodeBody(c, &raw); err != nil {
		return err
	}
	p, err := a.Posts.Create(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	var patch map[string]any
	if err := decodeBody(c, &patch); err != nil {
		return err
	}
	p, err := a.Posts.Update(c.Request().Context(), pathParam(c, "id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleDeletePost(c echo.Context) error {
	if err := a.Posts.Delete(c.Request().Context(), pathParam(c, "id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handlePreviewPost(c echo.Context) error {
	p, err := a.Posts.Get(c.Request().Context(), pathParam(c, "id"))
	if err != nil {
		return err
	}
	lang := a.local.Language(c.Request().Header.Get(headerAcceptLanguage))
	return Render(c, previewPage(p, a.Config, lang.String()))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.livePosts(c)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.livePosts(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) livePosts(c echo.Context) ([]content.Post, error) {
	posts, err := a.Posts.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return LivePosts(posts, a.now()), nil
}

// decodeBody decodes a JSON request body into target. An empty body leaves
// target untouched; anything unparsable is a validation error.
func decodeBody(c echo.Context, target any) error {
	body := c.Request().Body
	if body == nil {
		return nil
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return &Error{Kind: KindValidation, Key: msgInvalidJSON, Err: err}
	}
	return nil
}

// pathParam returns the unescaped value of a route parameter.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			err = &Error{Kind: KindNotFound, Key: msgNotFound, Err: he}
		case http.StatusRequestEntityTooLarge:
			err = &Error{Kind: KindTooLarge, Key: msgRequestTooLarge, Err: he}
		default:
			if he.Code < 500 {
				a.writeError(c, he.Code, fmt.Sprint(he.Message))
				return
			}
		}
	}
	kind := KindOf(err)
	status := kind.Status()
	if status >= 500 {
		a.Log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	} else {
		a.Log.Debug("request rejected",
			zap.String("uri", c.Request().RequestURI),
			zap.Stringer("kind", kind),
			zap.Error(err))
	}
	a.writeError(c, status, a.local.Message(c.Request().Header.Get(headerAcceptLanguage), err))
}

func (a *App) writeError(c echo.Context, status int, msg string) {
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"message": msg})
}
