package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

type CommitHandler struct {
	Service domain.CommitUsecase
}

func NewCommitHandler(svc domain.CommitUsecase) *CommitHandler {
	return &CommitHandler{
		Service: svc,
	}
}

func (h *CommitHandler) ByPost(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	commits, err := h.Service.ListForPost(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommitsFromDomain(commits))
}

// Mine lists the commits of the calling manager
func (h *CommitHandler) Mine(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	commits, err := h.Service.ListForManager(c.Request.Context(), actor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommitsFromDomain(commits))
}
