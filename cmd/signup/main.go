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

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	profileFlag := flag.String("profile", "profile.yaml", "YAML file with the sign-up profile")
	flag.Parse()

	logger.Info("Starting sign up")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	params, err := common.LoadSignUpParams(*profileFlag)
	if err != nil {
		logger.Fatal("Failed to load profile", zap.String("file", *profileFlag), zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	result, err := services.Dashboard.SignUp(ctx, *params)
	if err != nil {
		logger.Fatal("Sign up failed", zap.String("email", params.Email), zap.Error(err))
	}

	profile := result.Profile
	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("Name:        %s\n", profile.FullName())
	fmt.Printf("Email:       %s\n", profile.Email)
	fmt.Printf("User ID:     %s\n", profile.UserId)
	fmt.Printf("Customer:    %s\n", profile.DwollaCustomerUrl)
	fmt.Printf("Session:     %s\n", result.Session.Id)
	common.PrintFooter("Link a bank with: linkbank --user "+profile.UserId+" --token <public_token>", common.DefaultWidth)

	logger.Info("Sign up completed", zap.String("user_id", profile.UserId))
}
