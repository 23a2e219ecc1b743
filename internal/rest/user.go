package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/rest/request"
	"github.com/Guyuepp/knowledge-base/internal/rest/response"
)

const profilePictureField = "profilePicture"

type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// openAvatar opens the optional profile picture of a multipart request.
func openAvatar(c *gin.Context) (*domain.FileUpload, func(), error) {
	files := formFiles(c, profilePictureField)
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	uploads, closer, err := openUploads(files[:1])
	if err != nil {
		return nil, closer, err
	}
	return &uploads[0], closer, nil
}

func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	avatar, closeAvatar, err := openAvatar(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer closeAvatar()

	in := req.ToDomain()
	in.ProfilePicture = avatar
	res, err := h.Service.Register(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewAuthFromDomain(res))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewAuthFromDomain(res))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.writeUser(c, id)
}

func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	h.writeUser(c, actor.UserID)
}

func (h *UserHandler) writeUser(c *gin.Context, id int64) {
	u, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewUserFromDomain(u))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req request.Profile
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	avatar, closeAvatar, err := openAvatar(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	defer closeAvatar()

	in := req.ToDomain()
	in.ProfilePicture = avatar
	u, err := h.Service.UpdateProfile(c.Request.Context(), actor, in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewUserFromDomain(u))
}

func (h *UserHandler) Stats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(c.Request.Context(), actor)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) Departments(c *gin.Context) {
	depts, err := h.Service.Departments(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewDepartmentsFromDomain(depts))
}
