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

// CreateBank inserts the mapping for one linked account. The unique index on
// account_id makes a concurrent second insert fail with store.ErrDuplicateBank.
func (s *Service) CreateBank(ctx context.Context, params store.CreateBankParams) (*models.Bank, error) {
	if params.AccountId == "" {
		return nil, fmt.Errorf("account id cannot be empty")
	}

	bank := &models.Bank{
		Id:               uuid.New().String(),
		UserId:           params.UserId,
		ItemId:           params.ItemId,
		AccountId:        params.AccountId,
		AccessToken:      params.AccessToken,
		FundingSourceUrl: params.FundingSourceUrl,
		ShareableId:      params.ShareableId,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertBank,
		bank.Id, bank.UserId, bank.ItemId, bank.AccountId, bank.AccessToken,
		bank.FundingSourceUrl, bank.ShareableId, bank.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			zap.L().Warn("Bank account already linked",
				zap.String("account_id", params.AccountId))
			return nil, fmt.Errorf("%w: account_id %s", store.ErrDuplicateBank, params.AccountId)
		}
		zap.L().Error("Failed to insert bank", zap.String("account_id", params.AccountId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert bank: %w", err)
	}

	zap.L().Info("Bank stored successfully",
		zap.String("id", bank.Id),
		zap.String("user_id", bank.UserId),
		zap.String("account_id", bank.AccountId))
	return bank, nil
}

func (s *Service) GetBanks(ctx context.Context, userId string) ([]models.Bank, error) {
	rows, err := s.db.QueryContext(ctx, queryGetBanksByUserId, userId)
	if err != nil {
		zap.L().Error("Failed to query banks", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query banks: %w", err)
	}
	defer closeRows(rows)

	var banks []models.Bank
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan bank row: %w", err)
		}
		banks = append(banks, *bank)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank rows: %w", err)
	}

	zap.L().Debug("Retrieved banks", zap.String("user_id", userId), zap.Int("count", len(banks)))
	return banks, nil
}

func (s *Service) GetBank(ctx context.Context, bankId string) (*models.Bank, error) {
	bank, err := scanBank(s.db.QueryRowContext(ctx, queryGetBankById, bankId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank %s", store.ErrNotFound, bankId)
		}
		return nil, fmt.Errorf("unable to query bank by ID: %w", err)
	}
	return bank, nil
}

func (s *Service) GetBankByAccountId(ctx context.Context, accountId string) (*models.Bank, error) {
	bank, err := scanBank(s.db.QueryRowContext(ctx, queryGetBankByAccountId, accountId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank with account_id %s", store.ErrNotFound, accountId)
		}
		return nil, fmt.Errorf("unable to query bank by account ID: %w", err)
	}
	return bank, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBank(row rowScanner) (*models.Bank, error) {
	var b models.Bank
	err := row.Scan(&b.Id, &b.UserId, &b.ItemId, &b.AccountId, &b.AccessToken,
		&b.FundingSourceUrl, &b.ShareableId, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
