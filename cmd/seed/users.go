package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
	"custcrm/internal/service"
)

// SeedUser is one entry of the seed file.
type SeedUser struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
}

type usersFile struct {
	Users []SeedUser `yaml:"users"`
}

func loadUsers(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseUsers(data)
}

func parseUsers(data []byte) ([]SeedUser, error) {
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parse seed users: %w", err)
	}
	return uf.Users, nil
}

// seedUsers creates every entry whose username is free. Entries without a
// username or password are skipped, as are existing usernames.
func seedUsers(ctx context.Context, users service.UserService, seeds []SeedUser) (created, skipped int, err error) {
	for _, u := range seeds {
		if u.Username == "" || u.Password == "" {
			skipped++
			continue
		}
		role := model.RoleUser
		if u.Role != "" {
			if role, err = model.ParseRole(u.Role); err != nil {
				return created, skipped, fmt.Errorf("user %s: %w", u.Username, err)
			}
		}

		_, err = users.CreateUser(ctx, service.UserInput{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Password:  u.Password,
			Role:      role,
		})
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		created++
	}
	return created, skipped, nil
}
