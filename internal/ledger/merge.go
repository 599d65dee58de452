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

package ledger

import (
	"slices"

	"finance-dashboard-go/internal/models"
)

// Merge builds the unified ledger of one bank. External transactions are placed
// ahead of transfers before a stable sort on date (newest first), so entries
// sharing a timestamp list the external ones first on every read.
func Merge(bankId string, external []models.ExternalTransaction, transfers []models.Transfer) []models.LedgerEntry {
	entries := make([]models.LedgerEntry, 0, len(external)+len(transfers))

	for _, tx := range external {
		entries = append(entries, models.LedgerEntry{
			Id:             tx.Id,
			Name:           tx.Name,
			Amount:         tx.Amount,
			Date:           tx.Date,
			PaymentChannel: tx.PaymentChannel,
			Category:       tx.Category,
			Type:           externalDirection(tx),
			Source:         models.SourceExternal,
			Pending:        tx.Pending,
			Image:          tx.LogoUrl,
		})
	}

	for _, t := range transfers {
		entries = append(entries, models.LedgerEntry{
			Id:             t.Id,
			Name:           t.Name,
			Amount:         t.Amount,
			Date:           t.CreatedAt,
			PaymentChannel: t.Channel,
			Category:       t.Category,
			Type:           t.DirectionFor(bankId),
			Source:         models.SourceTransfer,
		})
	}

	slices.SortStableFunc(entries, func(a, b models.LedgerEntry) int {
		return b.Date.Compare(a.Date)
	})
	return entries
}

// externalDirection follows the aggregator's sign convention: positive amounts leave the account.
func externalDirection(tx models.ExternalTransaction) string {
	if tx.Amount.IsPositive() {
		return models.DirectionDebit
	}
	return models.DirectionCredit
}

// FilterByAccount keeps the transactions posted to one external account. An
// item's feed covers every account under the same login.
func FilterByAccount(txs []models.ExternalTransaction, accountId string) []models.ExternalTransaction {
	out := make([]models.ExternalTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.AccountId == accountId {
			out = append(out, tx)
		}
	}
	return out
}
