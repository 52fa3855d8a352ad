// Package community contains the domain model for the community feed.
package community

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-shared photo with caption, like counter and an optional
// denormalized reference to a saved recipe.
type Post struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	UserAvatar        string `json:"userAvatar"`
	Image             string `json:"image"`
	Caption           string `json:"caption"`
	Likes             int    `json:"likes"`
	IsLiked           bool   `json:"isLiked"`
	Timestamp         int64  `json:"timestamp"`
	LinkedRecipeID    string `json:"linkedRecipeId,omitempty"`
	LinkedRecipeTitle string `json:"linkedRecipeTitle,omitempty"`
}

// NewPost creates a post for the publishing user. Likes start at zero and
// the linked recipe title is a snapshot taken by the caller at publish
// time, not a live reference.
func NewPost(userID, userName, avatar, image, caption, linkedRecipeID, linkedRecipeTitle string) (*Post, error) {
	if image == "" {
		return nil, ErrMissingImage
	}
	return &Post{
		ID:                uuid.NewString(),
		UserID:            userID,
		UserName:          userName,
		UserAvatar:        avatar,
		Image:             image,
		Caption:           caption,
		Likes:             0,
		IsLiked:           false,
		Timestamp:         time.Now().UnixMilli(),
		LinkedRecipeID:    linkedRecipeID,
		LinkedRecipeTitle: linkedRecipeTitle,
	}, nil
}

// ToggleLike flips the viewing user's like state and moves the counter by
// exactly one in the matching direction.
func (p *Post) ToggleLike() {
	if p.IsLiked {
		p.Likes--
	} else {
		p.Likes++
	}
	p.IsLiked = !p.IsLiked
}
