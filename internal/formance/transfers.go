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

package formance

import (
	"context"
	"fmt"
	"time"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// All metadata is set inside the script via set_tx_meta() so the Formance
// transaction is fully self-describing.
const numscriptInternalTransfer = `vars {
  asset $asset
  number $amount
  account $sender_bank_id
  account $receiver_bank_id
  string $transfer_id
  string $name
  string $email
  string $sender_id
  string $receiver_id
  string $transfer_url
}

send [$asset $amount] (
  source = @banks:$sender_bank_id allowing unbounded overdraft
  destination = @banks:$receiver_bank_id
)

set_tx_meta("event_type", "internal_transfer")
set_tx_meta("transfer_id", $transfer_id)
set_tx_meta("name", $name)
set_tx_meta("email", $email)
set_tx_meta("sender_id", $sender_id)
set_tx_meta("receiver_id", $receiver_id)
set_tx_meta("transfer_url", $transfer_url)
`

const transfersPageSize = int64(100)

// RecordTransfer posts the transfer as one double-entry movement between the two bank accounts.
func (s *Service) RecordTransfer(ctx context.Context, params store.RecordTransferParams) (*models.Transfer, error) {
	if params.SenderBankId == "" || params.ReceiverBankId == "" {
		return nil, fmt.Errorf("sender and receiver bank ids are required")
	}

	minor, err := toMinorUnits(params.Amount)
	if err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		Id:             uuid.New().String(),
		Name:           params.Name,
		Amount:         params.Amount,
		Email:          params.Email,
		Channel:        "online",
		Category:       "Transfer",
		SenderId:       params.SenderId,
		SenderBankId:   params.SenderBankId,
		ReceiverId:     params.ReceiverId,
		ReceiverBankId: params.ReceiverBankId,
		TransferUrl:    params.TransferUrl,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger: s.ledger,
		V2PostTransaction: shared.V2PostTransaction{
			Reference: strPtr(transfer.Id),
			Timestamp: &transfer.CreatedAt,
			Script: &shared.V2PostTransactionScript{
				Plain: numscriptInternalTransfer,
				Vars: map[string]string{
					"asset":            formanceAsset(),
					"amount":           minor,
					"sender_bank_id":   params.SenderBankId,
					"receiver_bank_id": params.ReceiverBankId,
					"transfer_id":      transfer.Id,
					"name":             params.Name,
					"email":            params.Email,
					"sender_id":        params.SenderId,
					"receiver_id":      params.ReceiverId,
					"transfer_url":     params.TransferUrl,
				},
			},
		},
	})
	if err != nil {
		if isConflictError(err) {
			return nil, fmt.Errorf("transfer reference %s already exists: %w", transfer.Id, err)
		}
		zap.L().Error("Failed to post transfer to Formance",
			zap.String("sender_bank_id", params.SenderBankId),
			zap.String("receiver_bank_id", params.ReceiverBankId),
			zap.String("transfer_url", params.TransferUrl),
			zap.Error(err))
		return nil, fmt.Errorf("error recording transfer transaction: %w", err)
	}

	zap.L().Info("Transfer recorded in Formance",
		zap.String("id", transfer.Id),
		zap.String("sender_bank_id", transfer.SenderBankId),
		zap.String("receiver_bank_id", transfer.ReceiverBankId),
		zap.String("amount", transfer.Amount.String()))
	return transfer, nil
}

// GetTransfersByBankId lists every transfer touching banks:<bankId>, newest first.
func (s *Service) GetTransfersByBankId(ctx context.Context, bankId string) ([]models.Transfer, error) {
	address := bankAccount(bankId)
	pageSize := transfersPageSize

	var (
		result []models.Transfer
		cursor *string
	)
	for {
		resp, err := s.client.Ledger.V2.ListTransactions(ctx, operations.V2ListTransactionsRequest{
			Ledger:   s.ledger,
			PageSize: &pageSize,
			Cursor:   cursor,
			RequestBody: map[string]any{
				"$or": []any{
					map[string]any{"$match": map[string]any{"source": address}},
					map[string]any{"$match": map[string]any{"destination": address}},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}

		page := resp.V2TransactionsCursorResponse.Cursor
		for _, tx := range page.Data {
			if t, ok := transferFromTransaction(tx); ok {
				result = append(result, t)
			}
		}

		if !page.HasMore || page.Next == nil {
			break
		}
		cursor = page.Next
	}

	zap.L().Debug("Retrieved transfers from Formance",
		zap.String("bank_id", bankId),
		zap.Int("count", len(result)))
	return result, nil
}

// transferFromTransaction rebuilds a Transfer from a posted ledger transaction.
// Transactions without a USD posting between two banks are ignored.
func transferFromTransaction(tx shared.V2Transaction) (models.Transfer, bool) {
	for _, p := range tx.Postings {
		if p.Asset != formanceAsset() {
			continue
		}

		id := tx.Metadata["transfer_id"]
		if id == "" && tx.Reference != nil {
			id = *tx.Reference
		}
		if id == "" && tx.ID != nil {
			id = tx.ID.String()
		}

		return models.Transfer{
			Id:             id,
			Name:           tx.Metadata["name"],
			Amount:         bigIntToDecimal(p.Amount),
			Email:          tx.Metadata["email"],
			Channel:        "online",
			Category:       "Transfer",
			SenderId:       tx.Metadata["sender_id"],
			SenderBankId:   bankIdFromAccount(p.Source),
			ReceiverId:     tx.Metadata["receiver_id"],
			ReceiverBankId: bankIdFromAccount(p.Destination),
			TransferUrl:    tx.Metadata["transfer_url"],
			CreatedAt:      tx.Timestamp,
		}, true
	}
	return models.Transfer{}, false
}

