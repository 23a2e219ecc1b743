package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

type TagHandler struct {
	Service domain.TagUsecase
}

func NewTagHandler(svc domain.TagUsecase) *TagHandler {
	return &TagHandler{
		Service: svc,
	}
}

func (h *TagHandler) Fetch(c *gin.Context) {
	var deptID *int64
	if v := c.Query("deptId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, err)
			return
		}
		deptID = &id
	}

	tags, err := h.Service.Fetch(c.Request.Context(), deptID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewTagsFromDomain(tags))
}

// Store finds or creates the tag in the caller's department
func (h *TagHandler) Store(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req request.Tag
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	t, created, err := h.Service.FindOrCreate(c.Request.Context(), actor, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, response.NewTagsFromDomain([]domain.Tag{t})[0])
}
