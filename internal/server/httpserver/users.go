package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

const loadedUserKey = "medmod.user"

type userHandler struct {
	svc    UserService
	logger logging.Logger
}

type createUserRequest struct {
	IDToken string `json:"idToken"`
}

// rawToken prefers the Authorization bearer token over the JSON body.
func rawToken(c *gin.Context) (string, error) {
	// the auth scheme is case-insensitive
	n := len(common.BearerPrefix)
	if h := c.GetHeader("Authorization"); len(h) >= n && strings.EqualFold(h[:n], common.BearerPrefix) {
		return strings.TrimSpace(h[n:]), nil
	}
	if c.Request.ContentLength == 0 {
		return "", nil
	}
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", common.Invalid("malformed request body")
	}
	return req.IDToken, nil
}

func (h *userHandler) create(c *gin.Context) {
	token, err := rawToken(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	u, err := h.svc.Create(c.Request.Context(), token)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(u, h.svc.IsPrivileged(u)))
}

// loadUser resolves :userId once per request for the handlers after it.
func (h *userHandler) loadUser(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Set(loadedUserKey, u)
	c.Next()
}

func (h *userHandler) get(c *gin.Context) {
	u := c.MustGet(loadedUserKey).(*models.User)
	c.JSON(http.StatusOK, newUserResponse(u, h.svc.IsPrivileged(u)))
}

func (h *userHandler) remove(c *gin.Context) {
	u, err := h.svc.Remove(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u, h.svc.IsPrivileged(u)))
}
