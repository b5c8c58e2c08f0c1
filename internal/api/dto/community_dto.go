package dto

import (
	"time"

	"github.com/myhome/myhome-service/internal/domain"
)

// CreateCommunityRequest payload for POST /communities.
type CreateCommunityRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	District string `json:"district" validate:"required,max=120"`
}

// AddAdminsRequest payload for POST /communities/:communityId/admins.
type AddAdminsRequest struct {
	Admins []string `json:"admins" validate:"required,min=1,max=50,dive,required,uuid"`
}

// CommunityResponse public view of a community.
type CommunityResponse struct {
	ID        string    `json:"communityId"`
	Name      string    `json:"name"`
	District  string    `json:"district"`
	Admins    []string  `json:"admins"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCommunityResponse maps a domain community.
func NewCommunityResponse(c *domain.Community) CommunityResponse {
	admins := c.AdminIDs
	if admins == nil {
		admins = []string{}
	}
	return CommunityResponse{
		ID:        c.ID,
		Name:      c.Name,
		District:  c.District,
		Admins:    admins,
		CreatedAt: c.CreatedAt,
	}
}

// NewCommunityResponses maps a slice of domain communities.
func NewCommunityResponses(communities []domain.Community) []CommunityResponse {
	out := make([]CommunityResponse, 0, len(communities))
	for i := range communities {
		out = append(out, NewCommunityResponse(&communities[i]))
	}
	return out
}
