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

// Package ledger assembles the dashboard views: per-bank balances from the
// aggregator snapshot and the unified transaction ledger of one bank.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	NameAccountNotFound = "Account not found"
	NameErrorLoading    = "Error loading account"

	defaultBalanceConcurrency = 4
)

// AccountSource is the part of the aggregator the ledger reads from.
type AccountSource interface {
	ListAccounts(ctx context.Context, accessToken string) (*models.ItemAccounts, error)
	GetInstitution(ctx context.Context, institutionId string) (*models.Institution, error)
}

// TransactionSyncer drains the external feed for one access token.
type TransactionSyncer interface {
	Sync(ctx context.Context, accessToken string) ([]models.ExternalTransaction, error)
}

type Service struct {
	banks       store.BankStore
	journal     store.TransferJournal
	source      AccountSource
	syncer      TransactionSyncer
	concurrency int
}

func NewService(banks store.BankStore, journal store.TransferJournal, source AccountSource, syncer TransactionSyncer, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = defaultBalanceConcurrency
	}
	return &Service{
		banks:       banks,
		journal:     journal,
		source:      source,
		syncer:      syncer,
		concurrency: concurrency,
	}
}

// GetAccounts returns one entry per linked bank in storage order. A bank whose
// live data cannot be read is reported as a zero-balance placeholder.
func (s *Service) GetAccounts(ctx context.Context, userId string) (*models.AccountsSummary, error) {
	banks, err := s.banks.GetBanks(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to load banks for user %s: %w", userId, err)
	}

	accounts := make([]models.Account, len(banks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, bank := range banks {
		g.Go(func() error {
			accounts[i] = s.resolveAccount(gctx, bank)
			return nil
		})
	}
	_ = g.Wait()

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.CurrentBalance)
	}

	zap.L().Info("Loaded accounts",
		zap.String("user_id", userId),
		zap.Int("banks", len(banks)),
		zap.String("total_current_balance", total.String()))

	return &models.AccountsSummary{
		Accounts:            accounts,
		TotalBanks:          len(banks),
		TotalCurrentBalance: total,
	}, nil
}

// resolveAccount never fails: lookup problems become placeholders.
func (s *Service) resolveAccount(ctx context.Context, bank models.Bank) models.Account {
	item, err := s.source.ListAccounts(ctx, bank.AccessToken)
	if err != nil {
		zap.L().Warn("Failed to load account snapshot",
			zap.String("bank_id", bank.Id),
			zap.String("account_id", bank.AccountId),
			zap.Error(err))
		return placeholder(bank, NameErrorLoading)
	}

	match := findAccount(item, bank.AccountId)
	if match == nil {
		zap.L().Warn("Linked account no longer returned by aggregator",
			zap.String("bank_id", bank.Id),
			zap.String("account_id", bank.AccountId))
		return placeholder(bank, NameAccountNotFound)
	}

	account := toAccount(bank, item.InstitutionId, *match)
	s.attachInstitution(ctx, &account)
	return account
}

// GetAccount returns one bank's snapshot and its unified ledger.
func (s *Service) GetAccount(ctx context.Context, bankId string) (*models.AccountDetail, error) {
	bank, err := s.banks.GetBank(ctx, bankId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("bank", bankId)
		}
		return nil, fmt.Errorf("unable to load bank %s: %w", bankId, err)
	}

	var (
		item      *models.ItemAccounts
		transfers []models.Transfer
		external  []models.ExternalTransaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		item, err = s.source.ListAccounts(gctx, bank.AccessToken)
		if err != nil {
			return fmt.Errorf("list accounts for bank %s: %w", bankId, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transfers, err = s.journal.GetTransfersByBankId(gctx, bankId)
		if err != nil {
			return fmt.Errorf("load transfers for bank %s: %w", bankId, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		external, err = s.syncer.Sync(gctx, bank.AccessToken)
		if err != nil {
			return fmt.Errorf("sync transactions for bank %s: %w", bankId, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	match := findAccount(item, bank.AccountId)
	if match == nil {
		return nil, apperrors.NewNotFound("aggregator account", bank.AccountId)
	}

	account := toAccount(*bank, item.InstitutionId, *match)
	s.attachInstitution(ctx, &account)

	entries := Merge(bank.Id, FilterByAccount(external, bank.AccountId), transfers)

	zap.L().Debug("Loaded account detail",
		zap.String("bank_id", bankId),
		zap.Int("transfers", len(transfers)),
		zap.Int("entries", len(entries)))

	return &models.AccountDetail{Account: account, Transactions: entries}, nil
}

func (s *Service) attachInstitution(ctx context.Context, account *models.Account) {
	if account.InstitutionId == "" {
		return
	}
	inst, err := s.source.GetInstitution(ctx, account.InstitutionId)
	if err != nil {
		zap.L().Warn("Failed to load institution",
			zap.String("institution_id", account.InstitutionId),
			zap.Error(err))
		return
	}
	account.InstitutionName = inst.Name
}

func findAccount(item *models.ItemAccounts, accountId string) *models.AggregatorAccount {
	if item == nil {
		return nil
	}
	for i := range item.Accounts {
		if item.Accounts[i].AccountId == accountId {
			return &item.Accounts[i]
		}
	}
	return nil
}

func toAccount(bank models.Bank, institutionId string, a models.AggregatorAccount) models.Account {
	return models.Account{
		Id:               a.AccountId,
		AvailableBalance: valueOrZero(a.Balances.Available),
		CurrentBalance:   valueOrZero(a.Balances.Current),
		InstitutionId:    institutionId,
		Name:             a.Name,
		OfficialName:     deref(a.OfficialName),
		Mask:             deref(a.Mask),
		Type:             a.Type,
		Subtype:          deref(a.Subtype),
		BankId:           bank.Id,
		ShareableId:      bank.ShareableId,
	}
}

func placeholder(bank models.Bank, name string) models.Account {
	return models.Account{
		Id:               bank.AccountId,
		AvailableBalance: decimal.Zero,
		CurrentBalance:   decimal.Zero,
		Name:             name,
		BankId:           bank.Id,
		ShareableId:      bank.ShareableId,
		Placeholder:      true,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
