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

	"finance-dashboard-go/internal/common"
	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/models"

	"go.uber.org/zap"
)

func printAccount(account models.Account) {
	fmt.Printf("\n┌─ %s", account.Name)
	if account.InstitutionName != "" {
		fmt.Printf(" at %s", account.InstitutionName)
	}
	fmt.Println()
	fmt.Printf("│  Bank ID:   %s\n", account.BankId)
	if account.Placeholder {
		fmt.Printf("└  (balances unavailable)\n")
		return
	}
	fmt.Printf("│  Type:      %s/%s ••••%s\n", account.Type, account.Subtype, account.Mask)
	fmt.Printf("│  Shareable: %s\n", account.ShareableId)
	common.PrintBoxSeparator(78)
	fmt.Printf("%s %-10s: %15s\n", common.BoxPrefix(false), "current", common.FormatUSD(account.CurrentBalance))
	fmt.Printf("%s %-10s: %15s\n", common.BoxPrefix(true), "available", common.FormatUSD(account.AvailableBalance))
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	userFlag := flag.String("user", "", "User ID whose accounts to show (required)")
	flag.Parse()

	if *userFlag == "" {
		logger.Fatal("--user is required")
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

	summary, err := services.Dashboard.GetAccounts(ctx, *userFlag)
	if err != nil {
		logger.Fatal("Failed to get accounts", zap.String("user_id", *userFlag), zap.Error(err))
	}

	common.PrintHeader("ACCOUNTS", common.DefaultWidth)
	for _, account := range summary.Accounts {
		printAccount(account)
	}

	common.PrintFooter(fmt.Sprintf("TOTAL: %d banks, current balance %s",
		summary.TotalBanks, common.FormatUSD(summary.TotalCurrentBalance)), common.DefaultWidth)

	logger.Info("Accounts query completed",
		zap.String("user_id", *userFlag),
		zap.Int("total_banks", summary.TotalBanks))
}
