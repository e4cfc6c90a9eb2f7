package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
	"custcrm/internal/repository"
)

const bcryptCost = 10

// UserInput is a validated user submission. An empty Password keeps the
// stored credential on update.
type UserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      model.Role
}

// ProfileInput is what a user may change about their own account.
type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService exposes user management operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, in UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UserInput) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateUser stores a new account. Without a password the account has no
// usable credential until one is set.
func (s *userService) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	if err := s.ensureUsernameFree(ctx, in.Username, 0); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsActive:  true,
	}
	user.SetRole(in.Role)
	if err := setPassword(user, in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, in UserInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username, id); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.SetRole(in.Role)
	if err := setPassword(user, in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits the caller's own account. The stored role flags are
// left as they are.
func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username, id); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	if err := setPassword(user, in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) ensureUsernameFree(ctx context.Context, username string, self uint) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check username: %w", err)
	}
	if existing.ID != self {
		return apperrors.ErrUsernameTaken
	}
	return nil
}

// setPassword hashes a non-empty password into user. An empty password
// leaves the stored hash untouched.
func setPassword(user *model.User, password string) error {
	if password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return nil
}
