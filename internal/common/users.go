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

package common

import (
	"context"
	"fmt"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"go.uber.org/zap"
)

// BankInfo represents simplified linked-bank information for command-line utilities
type BankInfo struct {
	Id          string
	AccountId   string
	ShareableId string
}

// InitializeBanks retrieves the banks linked to a user.
// If accountFilter is provided, returns only the bank for that external account.
// If accountFilter is empty, returns all of the user's banks.
func InitializeBanks(ctx context.Context, banks store.BankStore, userId, accountFilter string, logger *zap.Logger) ([]BankInfo, error) {
	var infos []BankInfo

	if accountFilter != "" {
		logger.Info("Looking up bank by account", zap.String("account_id", accountFilter))
		bank, err := banks.GetBankByAccountId(ctx, accountFilter)
		if err != nil {
			return nil, fmt.Errorf("bank not found: %w", err)
		}
		if bank.UserId != userId {
			return nil, fmt.Errorf("bank for account %s does not belong to user %s", accountFilter, userId)
		}
		infos = append(infos, toBankInfo(*bank))
	} else {
		all, err := banks.GetBanks(ctx, userId)
		if err != nil {
			return nil, fmt.Errorf("failed to get banks: %w", err)
		}
		for _, b := range all {
			infos = append(infos, toBankInfo(b))
		}
	}

	logger.Info("Retrieved banks", zap.String("user_id", userId), zap.Int("count", len(infos)))
	return infos, nil
}

func toBankInfo(b models.Bank) BankInfo {
	return BankInfo{
		Id:          b.Id,
		AccountId:   b.AccountId,
		ShareableId: b.ShareableId,
	}
}
