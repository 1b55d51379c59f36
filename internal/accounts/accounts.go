// Package accounts holds account provisioning helpers shared by the HTTP
// auth handlers and the operator CLI.
package accounts

import (
	"fmt"
	"strings"

	"resolve/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// Store is the slice of storage batch provisioning needs.
type Store interface {
	CreateUser(user *models.User) error
	MarkEmailVerified(userID string) error
	SaveProfile(profile *models.Profile) error
	GrantRole(userID string, role models.Role) error
}

// Spec describes one account to provision.
type Spec struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

// Created reports one successfully provisioned account.
type Created struct {
	Email  string      `json:"email"`
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
}

// Failure reports one account that could not be provisioned.
type Failure struct {
	Email string `json:"email"`
	Err   string `json:"error"`
}

// CreateBatch provisions accounts one by one: auth user (pre-verified),
// profile, role grant. A failure skips that account and moves on; the rest
// of the batch still lands.
func CreateBatch(s Store, specs []Spec) ([]Created, []Failure) {
	var created []Created
	var failed []Failure

	fail := func(email string, err error) {
		failed = append(failed, Failure{Email: email, Err: err.Error()})
	}

	for _, spec := range specs {
		email := strings.ToLower(strings.TrimSpace(spec.Email))
		if email == "" || spec.Password == "" {
			fail(spec.Email, fmt.Errorf("email and password are required"))
			continue
		}
		if !spec.Role.Valid() {
			fail(email, fmt.Errorf("invalid role %q", spec.Role))
			continue
		}

		hash, err := HashPassword(spec.Password)
		if err != nil {
			fail(email, err)
			continue
		}

		user := &models.User{Email: email, PasswordHash: hash}
		if err := s.CreateUser(user); err != nil {
			fail(email, err)
			continue
		}
		if err := s.MarkEmailVerified(user.ID); err != nil {
			fail(email, err)
			continue
		}
		if err := s.SaveProfile(&models.Profile{ID: user.ID, FullName: strings.TrimSpace(spec.FullName)}); err != nil {
			fail(email, err)
			continue
		}
		if err := s.GrantRole(user.ID, spec.Role); err != nil {
			fail(email, err)
			continue
		}

		created = append(created, Created{Email: email, UserID: user.ID, Role: spec.Role})
	}
	return created, failed
}
