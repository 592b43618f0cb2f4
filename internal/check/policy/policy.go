// Package policy turns an assembled profile into a verdict. This is pure
// domain logic - no I/O, no clock, no side effects - so the rules stay
// centralized and testable.
package policy

import "vouch/internal/check/models"

// Evaluate compares each measured metric against its threshold. Every bound
// is inclusive: meeting a threshold exactly passes. Criteria keep the fixed
// presentation order (account age, friends, groups) and the overall verdict
// is the conjunction of all three.
//
// Negative counts cannot come out of a correct aggregation; they are rejected
// as *models.InvalidInputError before any criterion is evaluated.
func Evaluate(profile *models.Profile, thresholds models.ThresholdPolicy) (*models.Result, error) {
	if profile.AccountAgeDays < 0 {
		return nil, &models.InvalidInputError{Field: "account age", Value: profile.AccountAgeDays}
	}
	if profile.FriendCount < 0 {
		return nil, &models.InvalidInputError{Field: "friend count", Value: profile.FriendCount}
	}
	if profile.GroupCount < 0 {
		return nil, &models.InvalidInputError{Field: "group count", Value: profile.GroupCount}
	}

	criteria := []models.Criterion{
		criterion(models.CriterionAccountAge, profile.AccountAgeDays, thresholds.MinAccountAgeDays),
		criterion(models.CriterionFriends, profile.FriendCount, thresholds.MinFriends),
		criterion(models.CriterionGroups, profile.GroupCount, thresholds.MinGroups),
	}

	overall := true
	for _, c := range criteria {
		overall = overall && c.Passed
	}

	return &models.Result{
		SubjectName:    profile.Subject.DisplayName,
		AccountAgeDays: profile.AccountAgeDays,
		Criteria:       criteria,
		OverallPassed:  overall,
	}, nil
}

func criterion(name string, measured, threshold int) models.Criterion {
	return models.Criterion{
		Name:      name,
		Measured:  measured,
		Threshold: threshold,
		Passed:    measured >= threshold,
	}
}
