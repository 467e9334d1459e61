package models

import (
	"errors"
	"time"

	"github.com/gookit/validate"
)

type BlogUser struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	ArticleCount int64     `json:"articleCount"`
	Followers    int64     `json:"followers"`
	Likes        int64     `json:"likes"`
	Views        int64     `json:"views"`
	Comments     int64     `json:"comments"`
	Points       int64     `json:"points"`
	VisitCount   int64     `json:"visitCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// BlogUserPatch is a partial update. Nil fields, and an empty username,
// keep the stored value.
type BlogUserPatch struct {
	Username     *string `json:"username,omitempty"`
	ArticleCount *int64  `json:"articleCount,omitempty" validate:"min:0"`
	Followers    *int64  `json:"followers,omitempty" validate:"min:0"`
	Likes        *int64  `json:"likes,omitempty" validate:"min:0"`
	Views        *int64  `json:"views,omitempty" validate:"min:0"`
	Comments     *int64  `json:"comments,omitempty" validate:"min:0"`
	Points       *int64  `json:"points,omitempty" validate:"min:0"`
	VisitCount   *int64  `json:"visitCount,omitempty" validate:"min:0"`
}

// Validate rejects negative counters.
func (p *BlogUserPatch) Validate() error {
	v := validate.Struct(p)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}
	return nil
}

// NewBlogUser returns a zeroed record; the username defaults to the id.
func NewBlogUser(userID string, now time.Time) *BlogUser {
	return &BlogUser{
		UserID:      userID,
		Username:    userID,
		LastUpdated: now,
	}
}

// Apply merges p over u and refreshes LastUpdated.
func (u *BlogUser) Apply(p *BlogUserPatch, now time.Time) {
	if p != nil {
		setString(&u.Username, p.Username)
		setInt(&u.ArticleCount, p.ArticleCount)
		setInt(&u.Followers, p.Followers)
		setInt(&u.Likes, p.Likes)
		setInt(&u.Views, p.Views)
		setInt(&u.Comments, p.Comments)
		setInt(&u.Points, p.Points)
		setInt(&u.VisitCount, p.VisitCount)
	}
	u.LastUpdated = now
}

func (u *BlogUser) Updated() time.Time {
	return u.LastUpdated
}

func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

func setInt(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}
