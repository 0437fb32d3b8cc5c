package models

import "time"

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleMessOwner Role = "MESS_OWNER"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Avatar        string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role          Role      `json:"role" bson:"role"`
	IsVerified    bool      `json:"is_verified" bson:"is_verified"`
	GoogleID      string    `json:"-" bson:"google_id,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}
