package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of account roles. Authorization decisions compare
// against these constants only; unknown values never enter the system.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is an account holder. The three token columns are independent slots:
// VerificationToken is outstanding until the email is verified, RefreshToken
// holds the single active refresh credential (a new login overwrites it) and
// ResetToken holds an outstanding password-reset credential. Refresh and
// reset are separate columns so a password-reset request does not invalidate
// an active session.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Phone             string    `gorm:"not null" json:"phone"`
	Role              Role      `gorm:"type:varchar(16);default:'customer'" json:"role"`
	IsVerified        bool      `gorm:"default:false" json:"is_verified"`
	VerificationToken string    `json:"-"`
	RefreshToken      string    `json:"-"`
	ResetToken        string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RegisterInput is the registration payload. Role is optional and defaults
// to customer.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role"`
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), 10)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
