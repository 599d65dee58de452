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
	"errors"
	"flag"
	"fmt"

	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/common"
	"finance-dashboard-go/internal/config"

	"go.uber.org/zap"
)

func printResult(result *banklink.Result) {
	fmt.Printf("Item: %s\n", result.ItemId)

	fmt.Printf("\n┌─ Created: %d\n", len(result.Created))
	for i, bank := range result.Created {
		fmt.Printf("%s %s (bank %s, shareable %s)\n",
			common.BoxPrefix(i == len(result.Created)-1), bank.AccountId, common.ShortId(bank.Id), bank.ShareableId)
	}

	fmt.Printf("\n┌─ Already linked: %d\n", len(result.Skipped))
	for i, accountId := range result.Skipped {
		fmt.Printf("%s %s\n", common.BoxPrefix(i == len(result.Skipped)-1), accountId)
	}

	fmt.Printf("\n┌─ Failed: %d\n", len(result.Errored))
	for i, accountErr := range result.Errored {
		fmt.Printf("%s %s\n", common.BoxPrefix(i == len(result.Errored)-1), accountErr.Error())
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	userFlag := flag.String("user", "", "User ID to link the bank to (required)")
	tokenFlag := flag.String("token", "", "Public token from the bank-link widget (required unless --link-token)")
	linkTokenFlag := flag.Bool("link-token", false, "Create a link token to open the bank-link widget and exit")
	flag.Parse()

	if *userFlag == "" {
		logger.Fatal("--user is required")
	}
	if *tokenFlag == "" && !*linkTokenFlag {
		logger.Fatal("Either --token or --link-token is required")
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

	if *linkTokenFlag {
		linkToken, err := services.Dashboard.CreateLinkToken(ctx, *userFlag)
		if err != nil {
			logger.Fatal("Failed to create link token", zap.String("user_id", *userFlag), zap.Error(err))
		}
		fmt.Printf("Link token: %s\n", linkToken)
		return
	}

	result, err := services.Dashboard.LinkBank(ctx, *userFlag, *tokenFlag)
	var linkErr *banklink.LinkError
	if err != nil && !errors.As(err, &linkErr) {
		logger.Fatal("Bank link failed", zap.String("user_id", *userFlag), zap.Error(err))
	}

	common.PrintHeader("BANK LINK RESULT", common.DefaultWidth)
	printResult(result)

	summary := fmt.Sprintf("SUMMARY: %d created, %d already linked, %d failed",
		len(result.Created), len(result.Skipped), len(result.Errored))
	common.PrintFooter(summary, common.DefaultWidth)

	if linkErr != nil {
		logger.Fatal("No accounts were linked", zap.Error(linkErr))
	}
	logger.Info("Bank link completed", zap.String("user_id", *userFlag), zap.Int("created", len(result.Created)))
}
