package models

import "time"

// PracticeUser is a coding-practice site profile. Writes replace the whole
// document, only LastUpdated is owned by the storage layer.
type PracticeUser struct {
	Username           string         `json:"username"`
	RealName           string         `json:"realName,omitempty"`
	Avatar             string         `json:"avatar,omitempty"`
	Ranking            int64          `json:"ranking"`
	TotalSolved        int            `json:"totalSolved"`
	EasySolved         int            `json:"easySolved"`
	MediumSolved       int            `json:"mediumSolved"`
	HardSolved         int            `json:"hardSolved"`
	AcceptanceRate     float64        `json:"acceptanceRate"`
	ContributionPoints int            `json:"contributionPoints"`
	Reputation         int            `json:"reputation"`
	Extra              map[string]any `json:"extra,omitempty"`
	LastUpdated        time.Time      `json:"lastUpdated"`
}

// Replaced returns a copy of u keyed by username and stamped with now.
func (u PracticeUser) Replaced(username string, now time.Time) *PracticeUser {
	u.Username = username
	u.LastUpdated = now
	return &u
}

func (u *PracticeUser) Updated() time.Time {
	return u.LastUpdated
}
