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

package main

import (
	"context"
	"flag"
	"fmt"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/common"
	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/transfer"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	fromFlag := flag.String("from", "", "Sender bank ID (required)")
	toFlag := flag.String("to", "", "Receiver shareable ID (required)")
	amountFlag := flag.String("amount", "", "Amount in USD, e.g. 25.00 (required)")
	noteFlag := flag.String("note", "Transfer", "Note shown on both ledgers")
	emailFlag := flag.String("email", "", "Receiver email (optional)")
	flag.Parse()

	if *fromFlag == "" || *toFlag == "" || *amountFlag == "" {
		logger.Fatal("--from, --to and --amount are required")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		logger.Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	t, err := services.Dashboard.CreateTransfer(ctx, transfer.Params{
		SenderBankId: *fromFlag,
		ShareableId:  *toFlag,
		Amount:       amount,
		Note:         *noteFlag,
		Email:        *emailFlag,
	})
	if err != nil {
		if apperrors.IsInconsistent(err) {
			common.PrintHeader("TRANSFER SENT, NOT RECORDED", common.DefaultWidth)
			fmt.Println(err.Error())
			common.PrintFooter("The payment network accepted the transfer; reconcile it manually.", common.DefaultWidth)
		}
		logger.Fatal("Transfer failed", zap.Error(err))
	}

	common.PrintHeader("TRANSFER COMPLETE", common.DefaultWidth)
	fmt.Printf("ID:        %s\n", t.Id)
	fmt.Printf("Amount:    %s\n", common.FormatUSD(t.Amount))
	fmt.Printf("From bank: %s\n", t.SenderBankId)
	fmt.Printf("To bank:   %s\n", t.ReceiverBankId)
	fmt.Printf("Network:   %s\n", t.TransferUrl)
	common.PrintFooter("Transfer recorded on both ledgers", common.DefaultWidth)

	logger.Info("Transfer completed", zap.String("transfer_id", t.Id))
}
