package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type googleProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID         string                `json:"id"`
	Google     googleProfileResponse `json:"google"`
	Created    time.Time             `json:"created"`
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Privileged bool                  `json:"privileged"`
}

type MeshFileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

type MeshResponse struct {
	ID        string             `json:"id"`
	Owner     string             `json:"owner"`
	Name      string             `json:"name"`
	ShortDesc string             `json:"shortDesc"`
	LongDesc  string             `json:"longDesc"`
	Files     []MeshFileResponse `json:"files"`
	Created   time.Time          `json:"created"`
}

type FileURLResponse struct {
	URL string `json:"url"`
}

func newUserResponse(u *models.User, privileged bool) UserResponse {
	return UserResponse{
		ID: u.ID,
		Google: googleProfileResponse{
			ID:    u.Profile.ProviderID,
			Name:  u.Profile.Name,
			Email: u.Profile.Email,
		},
		Created:    u.CreatedAt,
		Name:       u.Name(),
		Email:      u.Email(),
		Privileged: privileged,
	}
}

func newMeshResponse(m *models.Mesh) MeshResponse {
	files := make([]MeshFileResponse, 0, len(m.Files))
	for _, f := range m.Files {
		files = append(files, MeshFileResponse{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
		})
	}
	return MeshResponse{
		ID:        m.ID,
		Owner:     m.OwnerID,
		Name:      m.Name,
		ShortDesc: m.ShortDesc,
		LongDesc:  m.LongDesc,
		Files:     files,
		Created:   m.CreatedAt,
	}
}

// writeError answers with the status of err's kind. Internal failures are
// logged and reach the client only as the generic message.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	kind := common.KindOf(err)
	if !kind.IsPublic() {
		logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "route", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(kind.HTTPStatus(), ErrorResponse{Message: common.PublicMessage(err)})
}
