// Package external declares the contracts of the three systems the dashboard
// orchestrates. Implementations live in internal/appwrite, internal/plaid and
// internal/dwolla. Every failed call returns an *apperrors.ExternalError so
// callers can tell transient failures from permanent ones. Adapters never retry.
package external

import (
	"context"

	"finance-dashboard-go/internal/models"
)

// IdentityStore creates and removes user identities and sessions.
type IdentityStore interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.Identity, error)
	CreateSession(ctx context.Context, email, password string) (*models.Session, error)
	GetUser(ctx context.Context, userId string) (*models.Identity, error)
	DeleteUser(ctx context.Context, userId string) error
}

// BankAggregator reads bank data through a durable per-item access token.
type BankAggregator interface {
	// CreateLinkToken returns the short-lived token a client uses to open the
	// aggregator's account-linking flow.
	CreateLinkToken(ctx context.Context, userId, clientName string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*models.ItemCredentials, error)
	ListAccounts(ctx context.Context, accessToken string) (*models.ItemAccounts, error)
	// SyncTransactions returns one page of the delta feed. An empty cursor starts from the beginning.
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*models.SyncPage, error)
	GetInstitution(ctx context.Context, institutionId string) (*models.Institution, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountId string) (string, error)
}

// PaymentNetwork moves money between funding sources. Each create call
// returns the URL of the created resource.
type PaymentNetwork interface {
	CreateCustomer(ctx context.Context, customer models.NewCustomer) (string, error)
	CreateOnDemandAuthorization(ctx context.Context) (models.AuthLinks, error)
	CreateFundingSource(ctx context.Context, params models.FundingSourceParams) (string, error)
	CreateTransfer(ctx context.Context, params models.TransferParams) (string, error)
}
