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
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the local record of a provisioned user, keyed by identity id
type Profile struct {
	Id                string    `db:"id"`
	UserId            string    `db:"user_id"`
	Email             string    `db:"email"`
	FirstName         string    `db:"first_name"`
	LastName          string    `db:"last_name"`
	Address1          string    `db:"address1"`
	City              string    `db:"city"`
	State             string    `db:"state"`
	PostalCode        string    `db:"postal_code"`
	DateOfBirth       string    `db:"date_of_birth"`
	DwollaCustomerId  string    `db:"dwolla_customer_id"`
	DwollaCustomerUrl string    `db:"dwolla_customer_url"`
	CreatedAt         time.Time `db:"created_at"`
}

// DisplayName joins first and last name, dropping the separator when either is empty
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// FullName returns the profile's display name
func (p Profile) FullName() string {
	return DisplayName(p.FirstName, p.LastName)
}

// Bank is one linked external bank account
type Bank struct {
	Id               string    `db:"id"`
	UserId           string    `db:"user_id"`
	ItemId           string    `db:"item_id"`
	AccountId        string    `db:"account_id"`
	AccessToken      string    `db:"access_token"`
	FundingSourceUrl string    `db:"funding_source_url"`
	ShareableId      string    `db:"shareable_id"`
	CreatedAt        time.Time `db:"created_at"`
}

// Transfer is an immutable record of a funds movement executed through this system
type Transfer struct {
	Id             string          `db:"id"`
	Name           string          `db:"name"`
	Amount         decimal.Decimal `db:"amount"`
	Email          string          `db:"email"`
	Channel        string          `db:"channel"`
	Category       string          `db:"category"`
	SenderId       string          `db:"sender_id"`
	SenderBankId   string          `db:"sender_bank_id"`
	ReceiverId     string          `db:"receiver_id"`
	ReceiverBankId string          `db:"receiver_bank_id"`
	TransferUrl    string          `db:"transfer_url"`
	CreatedAt      time.Time       `db:"created_at"`
}

// DirectionFor derives debit/credit relative to the given bank
func (t Transfer) DirectionFor(bankId string) string {
	if t.SenderBankId == bankId {
		return DirectionDebit
	}
	return DirectionCredit
}
