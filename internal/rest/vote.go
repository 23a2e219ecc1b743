package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

type VoteHandler struct {
	Service domain.VoteUsecase
}

func NewVoteHandler(svc domain.VoteUsecase) *VoteHandler {
	return &VoteHandler{
		Service: svc,
	}
}

func (h *VoteHandler) cast(c *gin.Context, target domain.VoteTarget, voteType domain.VoteType) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	res, err := h.Service.Cast(c.Request.Context(), actor.UserID, target, voteType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewVoteResultFromDomain(res))
}

// Cast takes the target and type from the body
func (h *VoteHandler) Cast(c *gin.Context) {
	var req request.Vote
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.cast(c, req.Target(), domain.VoteType(req.VoteType))
}

func (h *VoteHandler) UpvoteComment(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.cast(c, domain.CommentTarget(id), domain.Upvote)
	}
}

func (h *VoteHandler) DownvoteComment(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.cast(c, domain.CommentTarget(id), domain.Downvote)
	}
}

func (h *VoteHandler) counts(c *gin.Context, target domain.VoteTarget) {
	counts, err := h.Service.Counts(c.Request.Context(), target)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.VoteCounts{Upvotes: counts.Upvotes, Downvotes: counts.Downvotes})
}

func (h *VoteHandler) CommentCounts(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.counts(c, domain.CommentTarget(id))
	}
}

func (h *VoteHandler) PostCounts(c *gin.Context) {
	if id, ok := paramID(c, "id"); ok {
		h.counts(c, domain.PostTarget(id))
	}
}

func (h *VoteHandler) CommentUserVote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	v, err := h.Service.UserVote(c.Request.Context(), actor.UserID, domain.CommentTarget(id))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userVote": v})
}
