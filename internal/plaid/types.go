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

package plaid

import (
	"fmt"
	"time"

	"finance-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestId    string `json:"request_id"`
}

type accountsGetResponse struct {
	Accounts []models.AggregatorAccount `json:"accounts"`
	Item     struct {
		ItemId        string `json:"item_id"`
		InstitutionId string `json:"institution_id"`
	} `json:"item"`
}

type institutionGetResponse struct {
	Institution models.Institution `json:"institution"`
}

type linkTokenResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

type processorTokenResponse struct {
	ProcessorToken string `json:"processor_token"`
}

type transactionsSyncResponse struct {
	Added      []transaction `json:"added"`
	NextCursor string        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

type transaction struct {
	TransactionId           string          `json:"transaction_id"`
	AccountId               string          `json:"account_id"`
	Name                    string          `json:"name"`
	Amount                  decimal.Decimal `json:"amount"`
	PaymentChannel          string          `json:"payment_channel"`
	Category                []string        `json:"category"`
	PersonalFinanceCategory *struct {
		Primary string `json:"primary"`
	} `json:"personal_finance_category"`
	Date    string  `json:"date"`
	Pending bool    `json:"pending"`
	LogoUrl *string `json:"logo_url"`
}

func (t transaction) toModel() (models.ExternalTransaction, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return models.ExternalTransaction{}, fmt.Errorf("invalid date %q: %w", t.Date, err)
	}

	category := ""
	if t.PersonalFinanceCategory != nil {
		category = t.PersonalFinanceCategory.Primary
	} else if len(t.Category) > 0 {
		category = t.Category[0]
	}

	logo := ""
	if t.LogoUrl != nil {
		logo = *t.LogoUrl
	}

	return models.ExternalTransaction{
		Id:             t.TransactionId,
		AccountId:      t.AccountId,
		Name:           t.Name,
		Amount:         t.Amount,
		PaymentChannel: t.PaymentChannel,
		Category:       category,
		Date:           date,
		Pending:        t.Pending,
		LogoUrl:        logo,
	}, nil
}
