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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreateProfile(ctx context.Context, params store.CreateProfileParams) (*models.Profile, error) {
	zap.L().Info("Creating profile",
		zap.String("user_id", params.UserId),
		zap.String("email", params.Email))

	profile := &models.Profile{
		Id:                uuid.New().String(),
		UserId:            params.UserId,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address1:          params.Address1,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       params.DateOfBirth,
		DwollaCustomerId:  params.DwollaCustomerId,
		DwollaCustomerUrl: params.DwollaCustomerUrl,
		CreatedAt:         time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertProfile,
		profile.Id, profile.UserId, profile.Email, profile.FirstName, profile.LastName,
		profile.Address1, profile.City, profile.State, profile.PostalCode, profile.DateOfBirth,
		profile.DwollaCustomerId, profile.DwollaCustomerUrl, profile.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrDuplicateProfile, params.UserId)
		}
		zap.L().Error("Failed to insert profile", zap.String("user_id", params.UserId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert profile: %w", err)
	}

	zap.L().Info("Profile created successfully",
		zap.String("id", profile.Id),
		zap.String("user_id", profile.UserId))
	return profile, nil
}

func (s *Service) GetProfileByUserId(ctx context.Context, userId string) (*models.Profile, error) {
	zap.L().Debug("Querying profile by user ID", zap.String("user_id", userId))

	var p models.Profile
	err := s.db.QueryRowContext(ctx, queryGetProfileByUserId, userId).Scan(
		&p.Id, &p.UserId, &p.Email, &p.FirstName, &p.LastName, &p.Address1, &p.City, &p.State,
		&p.PostalCode, &p.DateOfBirth, &p.DwollaCustomerId, &p.DwollaCustomerUrl, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile for user %s", store.ErrNotFound, userId)
		}
		zap.L().Error("Failed to query profile", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query profile: %w", err)
	}

	return &p, nil
}
