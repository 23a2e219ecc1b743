package rest

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/middleware"
)

const commitMessageParam = "commitMessage"

// paramID reads a positive integer path parameter; it answers 404 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

// mustActor returns the authenticated actor; routes using it sit behind middleware.Auth.
func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ResponseError{Message: "authentication required"})
		return domain.Actor{}, false
	}
	return actor, true
}

// viewerID is the optional caller identity on public routes.
func viewerID(c *gin.Context) *int64 {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return nil
	}
	return &actor.UserID
}

// openUploads opens multipart files; the returned closer must always be called.
func openUploads(headers []*multipart.FileHeader) ([]domain.FileUpload, func(), error) {
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	res := make([]domain.FileUpload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)
		res = append(res, domain.FileUpload{Name: h.Filename, Size: h.Size, Content: f})
	}
	return res, closeAll, nil
}

// formFiles collects files sent under any of the given keys.
func formFiles(c *gin.Context, keys ...string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var res []*multipart.FileHeader
	for _, k := range keys {
		res = append(res, form.File[k]...)
	}
	return res
}
