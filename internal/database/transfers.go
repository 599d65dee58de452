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
	"fmt"
	"time"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	transferChannel  = "online"
	transferCategory = "Transfer"
)

// RecordTransfer stores a transfer the payment network has already accepted.
func (s *Service) RecordTransfer(ctx context.Context, params store.RecordTransferParams) (*models.Transfer, error) {
	if params.SenderBankId == "" || params.ReceiverBankId == "" {
		return nil, fmt.Errorf("sender and receiver bank ids are required")
	}

	transfer := &models.Transfer{
		Id:             uuid.New().String(),
		Name:           params.Name,
		Amount:         params.Amount,
		Email:          params.Email,
		Channel:        transferChannel,
		Category:       transferCategory,
		SenderId:       params.SenderId,
		SenderBankId:   params.SenderBankId,
		ReceiverId:     params.ReceiverId,
		ReceiverBankId: params.ReceiverBankId,
		TransferUrl:    params.TransferUrl,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertTransfer,
		transfer.Id, transfer.Name, transfer.Amount.String(), transfer.Email, transfer.Channel,
		transfer.Category, transfer.SenderId, transfer.SenderBankId, transfer.ReceiverId,
		transfer.ReceiverBankId, transfer.TransferUrl, transfer.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert transfer",
			zap.String("sender_bank_id", params.SenderBankId),
			zap.String("receiver_bank_id", params.ReceiverBankId),
			zap.String("transfer_url", params.TransferUrl),
			zap.Error(err))
		return nil, fmt.Errorf("unable to insert transfer: %w", err)
	}

	zap.L().Info("Transfer recorded",
		zap.String("id", transfer.Id),
		zap.String("sender_bank_id", transfer.SenderBankId),
		zap.String("receiver_bank_id", transfer.ReceiverBankId),
		zap.String("amount", transfer.Amount.String()))
	return transfer, nil
}

// GetTransfersByBankId returns every transfer where the bank is sender or receiver, newest first.
func (s *Service) GetTransfersByBankId(ctx context.Context, bankId string) ([]models.Transfer, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransfersByBankId, bankId, bankId)
	if err != nil {
		zap.L().Error("Failed to query transfers", zap.String("bank_id", bankId), zap.Error(err))
		return nil, fmt.Errorf("unable to query transfers: %w", err)
	}
	defer closeRows(rows)

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		var amountStr string
		err := rows.Scan(&t.Id, &t.Name, &amountStr, &t.Email, &t.Channel, &t.Category,
			&t.SenderId, &t.SenderBankId, &t.ReceiverId, &t.ReceiverBankId, &t.TransferUrl, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transfer row: %w", err)
		}

		t.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transfer amount '%s': %w", amountStr, err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}

	return transfers, nil
}
