// Package subscription derives a restaurant's subscription status and
// decides whether gated features may be used.
package subscription

import (
	"math"
	"time"

	"tablekart/internal/model"
)

// Status is the consolidated view of a restaurant's latest subscription.
type Status struct {
	HasSubscription bool                     `json:"hasSubscription"`
	IsActive        bool                     `json:"isActive"`
	IsExpired       bool                     `json:"isExpired"`
	DaysRemaining   int                      `json:"daysRemaining"`
	PlanName        string                   `json:"planName,omitempty"`
	State           model.SubscriptionStatus `json:"state,omitempty"`
	EndsAt          *time.Time               `json:"endsAt,omitempty"`
}

// Compute derives the status of sub at now. A subscription is active when
// its stored state is active or trial and now is before its end. Stored
// active or trial records past their end count as expired.
func Compute(sub *model.Subscription, now time.Time) Status {
	if sub == nil {
		return Status{}
	}

	endsAt := sub.EndsAt
	s := Status{
		HasSubscription: true,
		PlanName:        sub.PlanName,
		State:           sub.Status,
		EndsAt:          &endsAt,
	}

	running := sub.Status == model.SubscriptionActive || sub.Status == model.SubscriptionTrial
	switch {
	case running && now.Before(sub.EndsAt):
		s.IsActive = true
		s.DaysRemaining = int(math.Ceil(sub.EndsAt.Sub(now).Hours() / 24))
	case running, sub.Status == model.SubscriptionExpired:
		s.IsExpired = true
	}

	return s
}
