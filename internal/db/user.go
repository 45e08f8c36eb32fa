package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleAzubi     = "azubi"
	RoleAusbilder = "ausbilder"
)

// User is an account of either a trainee (Azubi) or a trainer (Ausbilder).
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string
	FirstName string
	LastName  string
	Role      string `gorm:"not null;default:azubi"`
	Company   string
	// SignatureImage holds a stored signature: either an uploaded image
	// reference (URL/data URL) or free text standing in for a signature.
	SignatureImage string
}

// DisplayName prefers the full name and falls back to "First Last".
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// IsAusbilder reports whether the user holds the trainer role.
func (u *User) IsAusbilder() bool {
	return u.Role == RoleAusbilder
}

// EnsureUser creates an account with a bcrypt hashed password when the email
// is not registered yet. Blank email or password is a silent no-op.
func EnsureUser(gdb *gorm.DB, email, password, fullName, role, company string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return gdb.Create(&User{
			Email:    trimmedEmail,
			Password: string(hashed),
			FullName: strings.TrimSpace(fullName),
			Role:     role,
			Company:  strings.TrimSpace(company),
		}).Error
	}

	return nil
}
