package entities

import "time"

// Subscription plans and their widget ceilings.
const (
	PlanTrial        = "TRIAL"
	PlanStarter      = "STARTER"
	PlanProfessional = "PROFESSIONAL"
	PlanEnterprise   = "ENTERPRISE"
)

const (
	SubscriptionTrial    = "TRIAL"
	SubscriptionActive   = "ACTIVE"
	SubscriptionCanceled = "CANCELED"
)

var planWidgetLimits = map[string]int{
	PlanTrial:        1,
	PlanStarter:      3,
	PlanProfessional: 10,
	PlanEnterprise:   50,
}

// WidgetLimit returns the maximum number of widgets a plan allows.
// Unknown plans fall back to the trial ceiling.
func WidgetLimit(plan string) int {
	if limit, ok := planWidgetLimits[plan]; ok {
		return limit
	}
	return planWidgetLimits[PlanTrial]
}

type Tenant struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Name               string    `json:"name"`
	Avatar             string    `json:"avatar,omitempty"`
	Role               string    `json:"role"`
	SubscriptionPlan   string    `json:"subscriptionPlan"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CanUseWidgets reports whether the tenant's subscription still allows
// serving widget traffic.
func (t *Tenant) CanUseWidgets() bool {
	return t.SubscriptionStatus != SubscriptionCanceled
}
