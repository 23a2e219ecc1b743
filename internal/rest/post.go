package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

// PostHandler represent the httphandler for post
type PostHandler struct {
	Service domain.PostUsecase
}

func NewPostHandler(svc domain.PostUsecase) *PostHandler {
	return &PostHandler{
		Service: svc,
	}
}

// Feed will fetch a page of posts, optionally filtered by department and tag
func (h *PostHandler) Feed(c *gin.Context) {
	var req request.Feed
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.Service.Feed(c.Request.Context(), req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPostsFromDomain(list))
}

// GetByID will get post by given id
func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&p))
}

func (h *PostHandler) Mine(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	list, err := h.Service.Mine(c.Request.Context(), actor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPostsFromDomain(list))
}

// Store will create the post from a multipart form
func (h *PostHandler) Store(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req request.Post
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	uploads, closeUploads, err := openUploads(formFiles(c, "attachments", "attachments[]"))
	if err != nil {
		badRequest(c, err)
		return
	}
	defer closeUploads()

	in := req.ToDomain()
	in.Tags = append(c.PostFormArray("tags"), c.PostFormArray("tags[]")...)
	in.Attachments = uploads

	p, err := h.Service.Create(c.Request.Context(), actor, in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewPostFromDomain(&p))
}

// Update edits title and body; managers moderating another author pass commitMessage
func (h *PostHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.UpdatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Service.Update(c.Request.Context(), actor, id, req.ToDomain(c.Query(commitMessageParam)))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPostFromDomain(&p))
}

// Delete will delete the post by given param
func (h *PostHandler) Delete(c *gin.Context) {
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

func (h *PostHandler) Repost(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Service.Repost(c.Request.Context(), actor, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post reposted"})
}
