package dto

import (
	"time"

	"github.com/myhome/myhome-service/internal/domain"
)

// NamedEntry is one element of a batch create payload.
type NamedEntry struct {
	Name string `json:"name" validate:"required,max=120"`
}

// AddHousesRequest payload for POST /communities/:communityId/houses.
type AddHousesRequest struct {
	Houses []NamedEntry `json:"houses" validate:"required,min=1,max=100,dive"`
}

// Names returns the house names in request order.
func (r AddHousesRequest) Names() []string {
	return entryNames(r.Houses)
}

// AddMembersRequest payload for POST /houses/:houseId/members.
type AddMembersRequest struct {
	Members []NamedEntry `json:"members" validate:"required,min=1,max=50,dive"`
}

// Names returns the member names in request order.
func (r AddMembersRequest) Names() []string {
	return entryNames(r.Members)
}

func entryNames(entries []NamedEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// HouseResponse public view of a house.
type HouseResponse struct {
	ID          string    `json:"houseId"`
	CommunityID string    `json:"communityId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewHouseResponses maps a slice of domain houses.
func NewHouseResponses(houses []domain.House) []HouseResponse {
	out := make([]HouseResponse, 0, len(houses))
	for _, h := range houses {
		out = append(out, HouseResponse{ID: h.ID, CommunityID: h.CommunityID, Name: h.Name, CreatedAt: h.CreatedAt})
	}
	return out
}

// HouseMemberResponse public view of a house member.
type HouseMemberResponse struct {
	ID      string `json:"memberId"`
	HouseID string `json:"houseId"`
	Name    string `json:"name"`
}

// NewHouseMemberResponses maps a slice of domain house members.
func NewHouseMemberResponses(members []domain.HouseMember) []HouseMemberResponse {
	out := make([]HouseMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, HouseMemberResponse{ID: m.ID, HouseID: m.HouseID, Name: m.Name})
	}
	return out
}
