package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

type UsersHandler struct {
	users user.Repository
}

func NewUsersHandler(users user.Repository) *UsersHandler {
	return &UsersHandler{users: users}
}

// List returns every user, optionally narrowed by a case-insensitive match
// on name, email or phone.
func (h *UsersHandler) List(c *gin.Context) {
	all, err := h.users.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("query")))
	if q == "" {
		httpresp.List(c, all)
		return
	}

	out := make([]models.User, 0, len(all))
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(u.Phone, q) {
			out = append(out, u)
		}
	}
	httpresp.List(c, out)
}
