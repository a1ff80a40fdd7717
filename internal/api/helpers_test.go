package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
)

func adminIdentity() *domain.Identity {
	return &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin, Name: "Ada Admin"}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{UserID: uuid.New(), Role: domain.RoleUser, Name: "Uma User"}
}

func withIdentity(r *http.Request, identity *domain.Identity) *http.Request {
	return r.WithContext(shared.WithIdentity(r.Context(), identity))
}

func formBody(values url.Values) *strings.Reader {
	return strings.NewReader(values.Encode())
}

type loginCounter map[string]int

func (c loginCounter) Login(result string) { c[result]++ }
