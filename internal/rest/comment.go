package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// FetchByPost lists comments; hierarchical=false returns the flat creation-ordered list.
func (h *CommentHandler) FetchByPost(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	hierarchical := false
	if v := c.Query("hierarchical"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, err)
			return
		}
		hierarchical = b
	}

	nodes, err := h.Service.ListForPost(c.Request.Context(), postID, viewerID(c), hierarchical)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentsFromDomain(nodes))
}

func (h *CommentHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := h.Service.GetByID(c.Request.Context(), id, viewerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(n))
}

func (h *CommentHandler) Store(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Service.Create(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCommentFromDomain(n))
}

func (h *CommentHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.UpdateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Service.Update(c.Request.Context(), actor, id, req.ToDomain(c.Query(commitMessageParam)))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(n))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), actor, id, c.Query(commitMessageParam)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
