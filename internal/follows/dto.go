package follows

import "github.com/google/uuid"

type FollowRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}

// FollowResult reports the outcome of a follow or unfollow.
type FollowResult struct {
	StoreID   uuid.UUID `json:"store_id"`
	Following bool      `json:"following"`
	Changed   bool      `json:"changed"`
	Message   string    `json:"msg"`
}

type CountResult struct {
	StoreID        uuid.UUID `json:"store_id"`
	FollowersCount int64     `json:"followers_count"`
}

type StatusResult struct {
	StoreID   uuid.UUID `json:"store_id"`
	Following bool      `json:"following"`
}
