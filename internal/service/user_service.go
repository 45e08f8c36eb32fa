package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/berichtsheft/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("role must be azubi or ausbilder")
)

// UserService handles registration, authentication and profile updates.
type UserService struct {
	db *gorm.DB
}

// RegisterInput holds the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	Company  string
}

// ProfileInput holds the mutable profile fields.
type ProfileInput struct {
	FullName  string
	FirstName string
	LastName  string
	Company   string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Register creates a new account with a bcrypt hashed password.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidCredentials
	}
	if input.Role != db.RoleAzubi && input.Role != db.RoleAusbilder {
		return nil, ErrInvalidRole
	}

	var existing db.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(input.FullName),
		Role:     input.Role,
		Company:  strings.TrimSpace(input.Company),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks email and password and returns the matching user.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpdateProfile applies the mutable profile fields.
func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(input.FullName)
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Company = strings.TrimSpace(input.Company)

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdateSignature stores a signature against the user: either an uploaded
// image reference or typed text standing in for a signature.
func (s *UserService) UpdateSignature(id uint, signature string) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.SignatureImage = strings.TrimSpace(signature)
	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update signature: %w", err)
	}
	return user, nil
}
