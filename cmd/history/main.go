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

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func printEntry(entry models.LedgerEntry, isLast bool) {
	sign := "+"
	if entry.Type == models.DirectionDebit {
		sign = "-"
	}
	pending := ""
	if entry.Pending {
		pending = " (pending)"
	}

	fmt.Printf("%s %s  %-32s %s%12s  %-9s %s%s\n",
		common.BoxPrefix(isLast),
		entry.Date.Format("2006-01-02"),
		truncate(entry.Name, 32),
		sign,
		common.FormatUSD(entry.Amount.Abs()),
		entry.Source,
		entry.Category,
		pending)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	userFlag := flag.String("user", "", "User ID that owns the banks (required)")
	accountFlag := flag.String("account", "", "Filter by external account ID (optional)")
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

	banks, err := common.InitializeBanks(ctx, services.DbService, *userFlag, *accountFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize banks", zap.Error(err))
	}

	common.PrintHeader("TRANSACTION HISTORY", common.WideWidth)

	total := 0
	for _, bank := range banks {
		detail, err := services.Dashboard.GetAccount(ctx, bank.Id)
		if err != nil {
			logger.Error("Failed to load account",
				zap.String("bank_id", bank.Id),
				zap.Error(err))
			continue
		}

		fmt.Printf("\n┌─ %s (%s)\n", detail.Account.Name, bank.AccountId)
		fmt.Printf("│  Current: %s  Available: %s\n",
			common.FormatUSD(detail.Account.CurrentBalance), common.FormatUSD(detail.Account.AvailableBalance))
		common.PrintBoxSeparator(98)
		for i, entry := range detail.Transactions {
			printEntry(entry, i == len(detail.Transactions)-1)
		}
		total += len(detail.Transactions)
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d transactions across %d banks", total, len(banks)), common.WideWidth)

	logger.Info("History query completed", zap.String("user_id", *userFlag), zap.Int("transactions", total))
}
