package models

import "time"

type Role string

const (
	RoleStudio     Role = "studio"
	RoleInstructor Role = "instructor"
)

// Account is a studio or instructor login. Instructors hold a Stripe connected
// account id once payout onboarding has started.
type Account struct {
	ID              string    `bson:"id" json:"id"`
	Email           string    `bson:"email" json:"email"`
	Name            string    `bson:"name" json:"name"`
	Role            Role      `bson:"role" json:"role"`
	PasswordHash    string    `bson:"passwordHash" json:"-"`
	StripeAccountID string    `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	Certifications  []string  `bson:"certifications,omitempty" json:"certifications,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=studio instructor"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}
