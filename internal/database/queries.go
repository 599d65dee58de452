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

const (
	// Profile queries
	queryInsertProfile = `
		INSERT INTO profiles (
			id, user_id, email, first_name, last_name, address1, city, state,
			postal_code, date_of_birth, dwolla_customer_id, dwolla_customer_url, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetProfileByUserId = `
		SELECT id, user_id, email, first_name, last_name, address1, city, state,
		       postal_code, date_of_birth, dwolla_customer_id, dwolla_customer_url, created_at
		FROM profiles
		WHERE user_id = ?`

	// Bank queries
	queryInsertBank = `
		INSERT INTO banks (id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetBanksByUserId = `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE user_id = ?
		ORDER BY created_at, id`

	queryGetBankById = `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE id = ?`

	queryGetBankByAccountId = `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE account_id = ?`

	// Transfer queries
	queryInsertTransfer = `
		INSERT INTO transfers (
			id, name, amount, email, channel, category, sender_id, sender_bank_id,
			receiver_id, receiver_bank_id, transfer_url, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransfersByBankId = `
		SELECT id, name, amount, email, channel, category, sender_id, sender_bank_id,
		       receiver_id, receiver_bank_id, transfer_url, created_at
		FROM transfers
		WHERE sender_bank_id = ? OR receiver_bank_id = ?
		ORDER BY created_at DESC, id`
)
