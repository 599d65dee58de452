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

// Package transfer moves money between two linked banks and journals it.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxAmountDecimals = 2

// Network is the part of the payment network transfers need.
type Network interface {
	CreateTransfer(ctx context.Context, params models.TransferParams) (string, error)
}

// IdDecoder reverses a shareable id into an external account id.
type IdDecoder interface {
	Decode(token string) (string, error)
}

type Params struct {
	SenderBankId string
	ShareableId  string
	Amount       decimal.Decimal
	Note         string
	Email        string
}

type Executor struct {
	banks   store.BankStore
	journal store.TransferJournal
	network Network
	decoder IdDecoder
}

func NewExecutor(banks store.BankStore, journal store.TransferJournal, network Network, decoder IdDecoder) *Executor {
	return &Executor{
		banks:   banks,
		journal: journal,
		network: network,
		decoder: decoder,
	}
}

// Execute validates both sides locally before calling the payment network.
// A failure to journal an accepted transfer is an *apperrors.InconsistentStateError.
func (e *Executor) Execute(ctx context.Context, params Params) (*models.Transfer, error) {
	if !params.Amount.IsPositive() {
		return nil, apperrors.NewValidation("amount", "must be greater than zero")
	}
	if !params.Amount.Equal(params.Amount.Truncate(maxAmountDecimals)) {
		return nil, apperrors.NewValidation("amount", "must have at most 2 decimal places")
	}

	receiverAccountId, err := e.decoder.Decode(params.ShareableId)
	if err != nil {
		return nil, apperrors.NewValidation("shareable_id", "invalid shareable id format")
	}

	sender, err := e.lookup(ctx, "sender bank", params.SenderBankId, e.banks.GetBank)
	if err != nil {
		return nil, err
	}
	receiver, err := e.lookup(ctx, "receiver bank", receiverAccountId, e.banks.GetBankByAccountId)
	if err != nil {
		return nil, err
	}

	if sender.Id == receiver.Id || sender.AccountId == receiverAccountId {
		return nil, apperrors.NewValidation("shareable_id", "cannot transfer to the same account")
	}

	transferUrl, err := e.network.CreateTransfer(ctx, models.TransferParams{
		SourceFundingSourceUrl:      sender.FundingSourceUrl,
		DestinationFundingSourceUrl: receiver.FundingSourceUrl,
		Amount:                      params.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("create transfer from %s to %s: %w", sender.Id, receiver.Id, err)
	}

	transfer, err := e.journal.RecordTransfer(ctx, store.RecordTransferParams{
		Name:           params.Note,
		Amount:         params.Amount,
		Email:          params.Email,
		SenderId:       sender.UserId,
		SenderBankId:   sender.Id,
		ReceiverId:     receiver.UserId,
		ReceiverBankId: receiver.Id,
		TransferUrl:    transferUrl,
	})
	if err != nil {
		zap.L().Error("Transfer accepted by payment network but not recorded",
			zap.String("transfer_url", transferUrl),
			zap.String("sender_bank_id", sender.Id),
			zap.String("receiver_bank_id", receiver.Id),
			zap.String("amount", params.Amount.String()),
			zap.Error(err))
		return nil, &apperrors.InconsistentStateError{
			Operation: "transfer",
			Reference: transferUrl,
			Err:       err,
		}
	}

	zap.L().Info("Transfer executed",
		zap.String("transfer_id", transfer.Id),
		zap.String("transfer_url", transferUrl),
		zap.String("amount", params.Amount.String()))
	return transfer, nil
}

func (e *Executor) lookup(ctx context.Context, kind, id string, get func(context.Context, string) (*models.Bank, error)) (*models.Bank, error) {
	bank, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound(kind, id)
		}
		return nil, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	return bank, nil
}
