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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"

	SourceExternal = "external"
	SourceTransfer = "transfer"
)

// LedgerEntry is one row of the unified, read-only ledger for a linked bank
type LedgerEntry struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	PaymentChannel string          `json:"payment_channel"`
	Category       string          `json:"category"`
	Type           string          `json:"type"` // "debit", "credit"
	Source         string          `json:"source"`
	Pending        bool            `json:"pending"`
	Image          string          `json:"image,omitempty"`
}

// Account is the dashboard view of one linked bank, combining the local
// mapping with the aggregator's live snapshot
type Account struct {
	Id               string          `json:"id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	InstitutionId    string          `json:"institution_id"`
	InstitutionName  string          `json:"institution_name,omitempty"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"official_name,omitempty"`
	Mask             string          `json:"mask"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	BankId           string          `json:"bank_id"`
	ShareableId      string          `json:"shareable_id"`
	Placeholder      bool            `json:"placeholder,omitempty"`
}

// AccountsSummary is the multi-bank dashboard view
type AccountsSummary struct {
	Accounts            []Account       `json:"accounts"`
	TotalBanks          int             `json:"total_banks"`
	TotalCurrentBalance decimal.Decimal `json:"total_current_balance"`
}

// AccountDetail is one bank's snapshot plus its unified ledger
type AccountDetail struct {
	Account      Account       `json:"account"`
	Transactions []LedgerEntry `json:"transactions"`
}
