package users

import (
	"encoding/json"
	"time"

	"invoice-portal/internal/domain/plans"
	"invoice-portal/internal/domain/subscriptions"
	"invoice-portal/internal/domain/users"
)

type MeResponse struct {
	User         UserDTO          `json:"user"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type PlanDTO struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Interval string      `json:"interval"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
}

type SubscriptionDTO struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	Plan             *PlanDTO   `json:"plan"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
}

func BuildUserDTO(u *users.User, role string) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, Role: role}
}

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:       p.ID,
		Name:     p.Name,
		Interval: p.Interval,
		Price:    json.Number(p.Price.StringFixed(2)),
		Currency: p.Currency,
	}
}

func BuildSubscriptionDTO(s *subscriptions.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:               s.ID,
		Status:           s.Status,
		Plan:             BuildPlanDTO(s.Plan),
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}
