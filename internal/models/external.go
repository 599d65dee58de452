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

// Identity is the identity store's view of a user
type Identity struct {
	Id    string `json:"$id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is an authenticated identity store session
type Session struct {
	Id     string `json:"$id"`
	UserId string `json:"userId"`
	Secret string `json:"secret"`
}

// ItemCredentials is the result of exchanging a temporary bank-link token
type ItemCredentials struct {
	AccessToken string `json:"access_token"`
	ItemId      string `json:"item_id"`
}

// AccountBalances is the aggregator's balance snapshot for one account
type AccountBalances struct {
	Available *decimal.Decimal `json:"available"`
	Current   *decimal.Decimal `json:"current"`
}

// AggregatorAccount is one account discovered under a bank item
type AggregatorAccount struct {
	AccountId    string          `json:"account_id"`
	Name         string          `json:"name"`
	OfficialName *string         `json:"official_name"`
	Mask         *string         `json:"mask"`
	Type         string          `json:"type"`
	Subtype      *string         `json:"subtype"`
	Balances     AccountBalances `json:"balances"`
}

// ItemAccounts is the account discovery response for one bank item
type ItemAccounts struct {
	Accounts      []AggregatorAccount
	ItemId        string
	InstitutionId string
}

// Institution is a bank institution known to the aggregator
type Institution struct {
	Id   string `json:"institution_id"`
	Name string `json:"name"`
}

// ExternalTransaction is a transaction reconstructed from the aggregator's delta feed
type ExternalTransaction struct {
	Id             string
	AccountId      string
	Name           string
	Amount         decimal.Decimal
	PaymentChannel string
	Category       string
	Date           time.Time
	Pending        bool
	LogoUrl        string
}

// SyncPage is one page of the aggregator's delta feed
type SyncPage struct {
	Added      []ExternalTransaction
	NextCursor string
	HasMore    bool
}

// NewCustomer holds the profile fields sent to the payment network
type NewCustomer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	Ssn         string `json:"ssn"`
}

// AuthLink is a single HAL link returned by the payment network
type AuthLink struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// AuthLinks are the links of an on-demand authorization
type AuthLinks map[string]AuthLink

// FundingSourceParams holds the inputs for creating a funding source
type FundingSourceParams struct {
	CustomerId     string
	Name           string
	ProcessorToken string
	AuthLinks      AuthLinks
}

// TransferParams holds the inputs for moving funds between two funding sources
type TransferParams struct {
	SourceFundingSourceUrl      string
	DestinationFundingSourceUrl string
	Amount                      decimal.Decimal
}
