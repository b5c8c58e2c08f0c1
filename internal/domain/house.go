package domain

import "time"

// House belongs to exactly one community.
type House struct {
	ID          string
	CommunityID string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HouseMember is a resident listed on a house. Members are not accounts.
type HouseMember struct {
	ID        string
	HouseID   string
	Name      string
	CreatedAt time.Time
}
