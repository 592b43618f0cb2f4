package models

import "time"

// Criterion names, in the order results are rendered.
const (
	CriterionAccountAge = "account_age_days"
	CriterionFriends    = "friends"
	CriterionGroups     = "groups"
)

// Subject is the account under evaluation. Immutable once resolved for the
// duration of a single check.
type Subject struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// Profile is the unified view assembled from the three upstream reads. It is
// all-or-nothing: a partially populated Profile is never handed on.
// AccountAgeDays is derived at assembly time as the ceiling of the absolute
// difference between now and CreatedAt in whole days, so a subject created a
// fraction of a day ago still has age 1.
type Profile struct {
	Subject        Subject   `json:"subject"`
	CreatedAt      time.Time `json:"created_at"`
	AccountAgeDays int       `json:"account_age_days"`
	FriendCount    int       `json:"friend_count"`
	GroupCount     int       `json:"group_count"`
}

// ThresholdPolicy holds the verification thresholds. All bounds are inclusive
// and the policy is never mutated at runtime.
type ThresholdPolicy struct {
	MinAccountAgeDays int
	MinFriends        int
	MinGroups         int
}

// Criterion is one verdict line: a measured value against its threshold.
type Criterion struct {
	Name      string `json:"name"`
	Measured  int    `json:"measured"`
	Threshold int    `json:"threshold"`
	Passed    bool   `json:"passed"`
}

// Result is the outcome of a full check. Criteria keep a fixed order (account
// age, friends, groups) because consumers render them in that sequence.
type Result struct {
	SubjectName    string      `json:"subject_name"`
	AccountAgeDays int         `json:"account_age_days"`
	Criteria       []Criterion `json:"criteria"`
	OverallPassed  bool        `json:"overall_passed"`
}
