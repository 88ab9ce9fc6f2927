package models

import (
	"strings"
	"time"
)

// Roles.
const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

// User is a registered guest or administrator.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	Country      string    `bson:"country,omitempty" json:"country,omitempty"`
	ZipCode      string    `bson:"zip_code,omitempty" json:"zip_code,omitempty"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one a user may hold.
func ValidRole(role string) bool {
	return role == RoleGuest || role == RoleAdmin
}

// UserRegistration is the input for creating an account. Role is only honored
// when an administrator creates the account.
type UserRegistration struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	ZipCode   string `json:"zip_code"`
	Role      string `json:"role"`
}

// ProfileUpdate carries the contact fields a user may change on their own account.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=40"`
	Address   *string `json:"address" binding:"omitempty,max=200"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	Country   *string `json:"country" binding:"omitempty,max=100"`
	ZipCode   *string `json:"zip_code" binding:"omitempty,max=20"`
}

// Empty reports whether the update sets no field.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Address == nil &&
		p.City == nil && p.Country == nil && p.ZipCode == nil
}

// Trimmed returns a copy with surrounding whitespace removed from every set field.
func (p ProfileUpdate) Trimmed() ProfileUpdate {
	for _, f := range []**string{&p.FirstName, &p.LastName, &p.Phone, &p.Address, &p.City, &p.Country, &p.ZipCode} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	return p
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.City != nil {
		u.City = *p.City
	}
	if p.Country != nil {
		u.Country = *p.Country
	}
	if p.ZipCode != nil {
		u.ZipCode = *p.ZipCode
	}
}
