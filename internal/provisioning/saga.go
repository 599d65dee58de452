/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package provisioning creates a user across the identity store, the payment
// network and the local profile table, undoing the identity on later failure.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/external"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"go.uber.org/zap"
)

const (
	customerTypePersonal   = "personal"
	defaultRollbackTimeout = 10 * time.Second
)

// CustomerCreator is the part of the payment network provisioning needs.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, customer models.NewCustomer) (string, error)
}

type SignUpParams struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Address1    string `yaml:"address1"`
	City        string `yaml:"city"`
	State       string `yaml:"state"`
	PostalCode  string `yaml:"postal_code"`
	DateOfBirth string `yaml:"date_of_birth"`
	Ssn         string `yaml:"ssn"`
}

type Result struct {
	User    *models.Identity
	Profile *models.Profile
	Session *models.Session
}

type Saga struct {
	identity        external.IdentityStore
	payments        CustomerCreator
	profiles        store.ProfileStore
	now             func() time.Time
	rollbackTimeout time.Duration
}

type Option func(*Saga)

// WithClock overrides the clock used for the age check.
func WithClock(now func() time.Time) Option {
	return func(s *Saga) { s.now = now }
}

func WithRollbackTimeout(d time.Duration) Option {
	return func(s *Saga) {
		if d > 0 {
			s.rollbackTimeout = d
		}
	}
}

func NewSaga(identity external.IdentityStore, payments CustomerCreator, profiles store.ProfileStore, opts ...Option) *Saga {
	s := &Saga{
		identity:        identity,
		payments:        payments,
		profiles:        profiles,
		now:             time.Now,
		rollbackTimeout: defaultRollbackTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp runs the saga. Nothing external is called when the date of birth is rejected.
func (s *Saga) SignUp(ctx context.Context, params SignUpParams) (*Result, error) {
	dob, err := ValidateDateOfBirth(params.DateOfBirth, s.now())
	if err != nil {
		return nil, err
	}

	identity, err := s.identity.CreateUser(ctx, params.Email, params.Password, models.DisplayName(params.FirstName, params.LastName))
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	zap.L().Info("Provisioning user", zap.String("user_id", identity.Id), zap.String("email", params.Email))

	session, err := s.identity.CreateSession(ctx, params.Email, params.Password)
	if err != nil {
		// identity is kept; compensation covers only the customer and profile steps
		return nil, fmt.Errorf("create session for %s: %w", identity.Id, err)
	}

	profile, err := s.enroll(ctx, identity.Id, params, dob)
	if err != nil {
		s.rollback(ctx, identity.Id, err)
		return nil, err
	}

	zap.L().Info("User provisioned",
		zap.String("user_id", identity.Id),
		zap.String("customer_id", profile.DwollaCustomerId))
	return &Result{User: identity, Profile: profile, Session: session}, nil
}

// enroll creates the payment customer and persists the profile. Any error
// here leaves an identity that must be rolled back.
func (s *Saga) enroll(ctx context.Context, userId string, params SignUpParams, dob string) (*models.Profile, error) {
	customerUrl, err := s.payments.CreateCustomer(ctx, models.NewCustomer{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        customerTypePersonal,
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: dob,
		Ssn:         params.Ssn,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment customer for %s: %w", userId, err)
	}

	customerId, err := CustomerIdFromUrl(customerUrl)
	if err != nil {
		return nil, fmt.Errorf("read payment customer reference: %w", err)
	}

	profile, err := s.profiles.CreateProfile(ctx, store.CreateProfileParams{
		UserId:            userId,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address1:          params.Address1,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       dob,
		DwollaCustomerId:  customerId,
		DwollaCustomerUrl: customerUrl,
	})
	if err != nil {
		return nil, fmt.Errorf("persist profile for %s: %w", userId, err)
	}
	return profile, nil
}

// rollback deletes the identity. It runs even when ctx is already cancelled
// and never replaces the error that triggered it.
func (s *Saga) rollback(ctx context.Context, userId string, cause error) {
	zap.L().Warn("Rolling back identity", zap.String("user_id", userId), zap.Error(cause))

	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.rollbackTimeout)
	defer cancel()

	if err := s.identity.DeleteUser(rbCtx, userId); err != nil {
		zap.L().Error("Failed to roll back identity",
			zap.String("user_id", userId),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	zap.L().Info("Identity rolled back", zap.String("user_id", userId))
}

// SignIn opens a session, resolves the session's user in the identity store
// and loads the matching profile.
func (s *Saga) SignIn(ctx context.Context, email, password string) (*Result, error) {
	session, err := s.identity.CreateSession(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	user, err := s.identity.GetUser(ctx, session.UserId)
	if err != nil {
		return nil, fmt.Errorf("load identity %s: %w", session.UserId, err)
	}

	profile, err := s.GetProfile(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Profile: profile, Session: session}, nil
}

func (s *Saga) GetProfile(ctx context.Context, userId string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserId(ctx, userId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("profile", userId)
		}
		return nil, fmt.Errorf("load profile for %s: %w", userId, err)
	}
	return profile, nil
}

// CustomerIdFromUrl returns the last path segment of a payment customer URL.
func CustomerIdFromUrl(customerUrl string) (string, error) {
	u, err := url.Parse(customerUrl)
	if err != nil {
		return "", fmt.Errorf("invalid customer url %q: %w", customerUrl, err)
	}
	path := strings.TrimRight(u.Path, "/")
	id := path[strings.LastIndex(path, "/")+1:]
	if id == "" {
		return "", fmt.Errorf("customer url %q has no id segment", customerUrl)
	}
	return id, nil
}
