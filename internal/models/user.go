package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeRenter UserType = "renter"
	UserTypeAdmin  UserType = "admin"
)

// User is a renter profile keyed to the auth identity; admins share the
// same table with user_type = 'admin'.
type User struct {
	gorm.Model
	FirstName    string `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string `gorm:"column:last_name;not null" json:"lastName"`
	Email        string `gorm:"column:email;unique;not null" json:"email"`
	Password     string `gorm:"-:migration" json:"-"` // Temporary field for password handling
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	ContactNum   string `gorm:"column:contact_num" json:"contactNum"`
	UserType     string `gorm:"column:user_type;not null;default:'renter'" json:"userType"`
	IsVerified   bool   `gorm:"column:is_verified;default:false" json:"isVerified"`
	FCMToken     string `gorm:"column:fcm_token" json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// FullName is the display name used on booking summaries and emails.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
