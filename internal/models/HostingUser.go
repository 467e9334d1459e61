package models

import "time"

// HostingUser tracks visits to a code-hosting profile card.
type HostingUser struct {
	Username        string    `json:"username"`
	VisitCount      int64     `json:"visitCount"`
	LastVisited     time.Time `json:"lastVisited"`
	LastUpdated     time.Time `json:"lastUpdated"`
	AvatarURL       string    `json:"avatarUrl,omitempty"`
	AvatarUpdatedAt time.Time `json:"avatarUpdatedAt"`
}

func NewHostingUser(username string, now time.Time) *HostingUser {
	return &HostingUser{
		Username:        username,
		VisitCount:      0,
		LastVisited:     now,
		LastUpdated:     now,
		AvatarUpdatedAt: now,
	}
}

// Visit counts one visit. The avatar only changes when avatarURL is not empty.
func (u *HostingUser) Visit(now time.Time, avatarURL string) {
	u.VisitCount++
	u.LastVisited = now
	u.LastUpdated = now
	if avatarURL != "" {
		u.AvatarURL = avatarURL
		u.AvatarUpdatedAt = now
	}
	if u.AvatarUpdatedAt.IsZero() {
		u.AvatarUpdatedAt = now
	}
}

func (u *HostingUser) Updated() time.Time {
	return u.LastUpdated
}
