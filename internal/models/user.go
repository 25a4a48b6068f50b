package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PhoneNo      string             `json:"phone_no,omitempty" bson:"phone_no,omitempty"`
	Password     string             `json:"-" bson:"password"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
	Staff        bool               `json:"staff" bson:"is_staff"`
	Admin        bool               `json:"admin" bson:"is_admin"`
	ReferrerUser string             `json:"referrer_user,omitempty" bson:"referrer_user,omitempty"`
	IsRemove     bool               `json:"-" bson:"is_remove"`
	LastLogin    *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
