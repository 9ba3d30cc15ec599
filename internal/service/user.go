package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-arsip/internal/model"
	"go-arsip/internal/pkg/auth"
	"go-arsip/internal/repository"

	"gorm.io/gorm"
)

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(email, name, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *userService) Authenticate(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(user); err != nil {
		log.Printf("Failed to stamp last login for %s: %v", email, err)
	}

	return user, nil
}
