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

// Package banklink turns a temporary bank-link token into linked bank
// accounts, each enrolled with the payment network as a funding source.
package banklink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Aggregator is the part of the bank aggregator linking needs.
type Aggregator interface {
	CreateLinkToken(ctx context.Context, userId, clientName string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*models.ItemCredentials, error)
	ListAccounts(ctx context.Context, accessToken string) (*models.ItemAccounts, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountId string) (string, error)
}

// FundingSources is the part of the payment network linking needs.
type FundingSources interface {
	CreateOnDemandAuthorization(ctx context.Context) (models.AuthLinks, error)
	CreateFundingSource(ctx context.Context, params models.FundingSourceParams) (string, error)
}

// IdEncoder produces the shareable id stored with each bank.
type IdEncoder interface {
	Encode(accountId string) (string, error)
}

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
	outcomeErrored
)

// AccountError records why one discovered account could not be linked.
type AccountError struct {
	AccountId string
	Err       error
}

func (e AccountError) Error() string {
	return fmt.Sprintf("%s (%v)", e.AccountId, e.Err)
}

func (e AccountError) Unwrap() error { return e.Err }

// Result lists every discovered account under exactly one outcome, in discovery order.
type Result struct {
	ItemId  string
	Created []models.Bank
	Skipped []string
	Errored []AccountError
}

// LinkError is returned when no account was created and at least one failed.
// Err combines every AccountError; use multierr.Errors to split it.
type LinkError struct {
	Err error
}

func (e *LinkError) Error() string {
	parts := make([]string, 0)
	for _, err := range multierr.Errors(e.Err) {
		parts = append(parts, err.Error())
	}
	return "failed to link any accounts: " + strings.Join(parts, ", ")
}

func (e *LinkError) Unwrap() error { return e.Err }

type Saga struct {
	aggregator  Aggregator
	payments    FundingSources
	banks       store.BankStore
	encoder     IdEncoder
	concurrency int
}

func NewSaga(aggregator Aggregator, payments FundingSources, banks store.BankStore, encoder IdEncoder, concurrency int) *Saga {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Saga{
		aggregator:  aggregator,
		payments:    payments,
		banks:       banks,
		encoder:     encoder,
		concurrency: concurrency,
	}
}

// CreateLinkToken opens a linking session for the profile's user. The public
// token that session yields is the input to Link.
func (s *Saga) CreateLinkToken(ctx context.Context, profile *models.Profile) (string, error) {
	token, err := s.aggregator.CreateLinkToken(ctx, profile.UserId, profile.FullName())
	if err != nil {
		return "", fmt.Errorf("create link token for %s: %w", profile.UserId, err)
	}
	zap.L().Info("Link token created", zap.String("user_id", profile.UserId))
	return token, nil
}

// Link exchanges publicToken and links every account of the item for the
// profile's user. Accounts are processed concurrently and independently. The
// result is returned even when the error is a *LinkError.
func (s *Saga) Link(ctx context.Context, profile *models.Profile, publicToken string) (*Result, error) {
	creds, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("exchange public token: %w", err)
	}

	item, err := s.aggregator.ListAccounts(ctx, creds.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("list accounts for item %s: %w", creds.ItemId, err)
	}

	zap.L().Info("Linking bank item",
		zap.String("user_id", profile.UserId),
		zap.String("item_id", creds.ItemId),
		zap.Int("accounts", len(item.Accounts)))

	type slot struct {
		outcome outcome
		bank    *models.Bank
		err     error
	}
	slots := make([]slot, len(item.Accounts))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, account := range item.Accounts {
		g.Go(func() error {
			bank, out, err := s.linkAccount(ctx, profile, creds, account)
			slots[i] = slot{outcome: out, bank: bank, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{ItemId: creds.ItemId}
	var errs error
	for i, sl := range slots {
		accountId := item.Accounts[i].AccountId
		switch sl.outcome {
		case outcomeCreated:
			result.Created = append(result.Created, *sl.bank)
		case outcomeSkipped:
			result.Skipped = append(result.Skipped, accountId)
		case outcomeErrored:
			accErr := AccountError{AccountId: accountId, Err: sl.err}
			result.Errored = append(result.Errored, accErr)
			errs = multierr.Append(errs, accErr)
		}
	}

	zap.L().Info("Bank item linked",
		zap.String("item_id", creds.ItemId),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("errored", len(result.Errored)))

	if len(result.Created) == 0 && len(result.Errored) > 0 {
		return result, &LinkError{Err: errs}
	}
	return result, nil
}

func (s *Saga) linkAccount(ctx context.Context, profile *models.Profile, creds *models.ItemCredentials, account models.AggregatorAccount) (*models.Bank, outcome, error) {
	log := zap.L().With(zap.String("account_id", account.AccountId))

	linked, err := s.alreadyLinked(ctx, account.AccountId)
	if err != nil {
		return nil, outcomeErrored, err
	}
	if linked {
		log.Info("Account already linked, skipping")
		return nil, outcomeSkipped, nil
	}

	processorToken, err := s.aggregator.CreateProcessorToken(ctx, creds.AccessToken, account.AccountId)
	if err != nil {
		log.Warn("Failed to create processor token", zap.Error(err))
		return nil, outcomeErrored, fmt.Errorf("create processor token: %w", err)
	}

	authLinks, err := s.payments.CreateOnDemandAuthorization(ctx)
	if err != nil {
		log.Warn("Failed to create on-demand authorization", zap.Error(err))
		return nil, outcomeErrored, fmt.Errorf("create on-demand authorization: %w", err)
	}

	fundingSourceUrl, err := s.payments.CreateFundingSource(ctx, models.FundingSourceParams{
		CustomerId:     profile.DwollaCustomerId,
		Name:           account.Name,
		ProcessorToken: processorToken,
		AuthLinks:      authLinks,
	})
	if err != nil {
		log.Warn("Failed to create funding source", zap.Error(err))
		return nil, outcomeErrored, fmt.Errorf("create funding source: %w", err)
	}

	shareableId, err := s.encoder.Encode(account.AccountId)
	if err != nil {
		return nil, outcomeErrored, fmt.Errorf("encode shareable id: %w", err)
	}

	// re-check right before the insert; the unique index settles any remaining race
	linked, err = s.alreadyLinked(ctx, account.AccountId)
	if err != nil {
		return nil, outcomeErrored, err
	}
	if linked {
		log.Info("Account linked concurrently, skipping")
		return nil, outcomeSkipped, nil
	}

	bank, err := s.banks.CreateBank(ctx, store.CreateBankParams{
		UserId:           profile.UserId,
		ItemId:           creds.ItemId,
		AccountId:        account.AccountId,
		AccessToken:      creds.AccessToken,
		FundingSourceUrl: fundingSourceUrl,
		ShareableId:      shareableId,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateBank) {
			log.Info("Account linked concurrently, insert rejected")
			return nil, outcomeSkipped, nil
		}
		log.Error("Failed to persist bank", zap.Error(err))
		return nil, outcomeErrored, fmt.Errorf("persist bank: %w", err)
	}

	log.Info("Account linked", zap.String("bank_id", bank.Id))
	return bank, outcomeCreated, nil
}

func (s *Saga) alreadyLinked(ctx context.Context, accountId string) (bool, error) {
	_, err := s.banks.GetBankByAccountId(ctx, accountId)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check existing bank: %w", err)
}
