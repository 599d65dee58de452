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
	"finance-dashboard-go/internal/transfer"

	"go.uber.org/zap"
)

// CreateTransfer sends money from one of the caller's banks to the bank behind a shareable id.
func (s *DashboardService) CreateTransfer(ctx context.Context, params transfer.Params) (*models.Transfer, error) {
	t, err := s.transfers.Execute(ctx, params)
	if err != nil {
		if apperrors.IsInconsistent(err) {
			// money moved; the caller must not report a failure
			zap.L().Error("Transfer requires reconciliation",
				zap.String("sender_bank_id", params.SenderBankId),
				zap.Error(err))
		}
		return nil, err
	}
	return t, nil
}
