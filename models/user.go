package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types known to the platform. Scoring and commission pipelines
// authorize against these.
const (
	UserTypeAdmin      = "admin"
	UserTypeFinanceiro = "financeiro"
	UserTypeGestor     = "gestor"
	UserTypeUser       = "user"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	FullName       string             `bson:"fullName" json:"fullName"`
	UserType       string             `bson:"userType" json:"userType"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	LastActivityAt time.Time          `bson:"lastActivityAt,omitempty" json:"lastActivityAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Response is the envelope used for error bodies and generic replies.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
