package model

import "time"

type UserRating struct {
	ID          string    `json:"id"`
	RatedUserID string    `json:"rated_user_id"`
	RaterUserID string    `json:"rater_user_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RatingWithRater struct {
	UserRating
	RaterUsername  string `json:"rater_username"`
	RaterAvatarURL string `json:"rater_avatar_url,omitempty"`
}

// RateUserReq represents the rate-user payload
// swagger:model RateUserReq
type RateUserReq struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
