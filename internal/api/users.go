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


package api

import (
	"context"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/provisioning"

	"go.uber.org/zap"
)

// SignUp provisions a new user and returns the profile with an open session.
func (s *DashboardService) SignUp(ctx context.Context, params provisioning.SignUpParams) (*provisioning.Result, error) {
	if params.Email == "" || params.Password == "" {
		return nil, apperrors.NewValidation("email", "email and password are required")
	}

	result, err := s.provisioning.SignUp(ctx, params)
	if err != nil {
		zap.L().Error("Sign up failed", zap.String("email", params.Email), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *DashboardService) SignIn(ctx context.Context, email, password string) (*provisioning.Result, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidation("email", "email and password are required")
	}
	return s.provisioning.SignIn(ctx, email, password)
}

func (s *DashboardService) GetProfile(ctx context.Context, userId string) (*models.Profile, error) {
	if userId == "" {
		return nil, apperrors.NewValidation("user_id", "is required")
	}
	return s.provisioning.GetProfile(ctx, userId)
}
