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

// Package txsync drains the aggregator's cursor-paged transaction feed.
package txsync

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"finance-dashboard-go/internal/models"

	"go.uber.org/zap"
)

// DefaultMaxPages bounds a single sync when no limit is configured.
const DefaultMaxPages = 1000

// ErrTooManyPages means the feed kept reporting has_more past the page limit.
var ErrTooManyPages = errors.New("transaction feed exceeded page limit")

// Feed is the part of the aggregator the engine needs.
type Feed interface {
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*models.SyncPage, error)
}

type Engine struct {
	feed     Feed
	maxPages int
}

func NewEngine(feed Feed, maxPages int) *Engine {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Engine{feed: feed, maxPages: maxPages}
}

// Pages yields each page in feed order, starting from the empty cursor. A
// failed page is yielded once with its error and iteration stops.
func (e *Engine) Pages(ctx context.Context, accessToken string) iter.Seq2[*models.SyncPage, error] {
	return func(yield func(*models.SyncPage, error) bool) {
		cursor := ""
		for n := 1; ; n++ {
			if n > e.maxPages {
				yield(nil, fmt.Errorf("%w (%d)", ErrTooManyPages, e.maxPages))
				return
			}

			page, err := e.feed.SyncTransactions(ctx, accessToken, cursor)
			if err != nil {
				yield(nil, fmt.Errorf("sync page %d: %w", n, err))
				return
			}

			zap.L().Debug("Fetched transaction page",
				zap.Int("page", n),
				zap.Int("added", len(page.Added)),
				zap.Bool("has_more", page.HasMore))

			if !yield(page, nil) || !page.HasMore {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// Sync drains the feed and returns every added transaction in feed order.
// Any page failure fails the whole sync and no partial list is returned.
func (e *Engine) Sync(ctx context.Context, accessToken string) ([]models.ExternalTransaction, error) {
	var (
		all   []models.ExternalTransaction
		pages int
	)
	for page, err := range e.Pages(ctx, accessToken) {
		if err != nil {
			zap.L().Warn("Transaction sync failed", zap.Int("pages_fetched", pages), zap.Error(err))
			return nil, err
		}
		pages++
		all = append(all, page.Added...)
	}

	zap.L().Info("Transaction sync complete",
		zap.Int("pages", pages),
		zap.Int("transactions", len(all)))
	return all, nil
}
