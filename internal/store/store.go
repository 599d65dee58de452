package store

import (
	"context"
	"errors"

	"finance-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateProfile = errors.New("profile already exists for user")
	ErrDuplicateBank    = errors.New("bank account already linked")
)

// CreateProfileParams contains the fields persisted for a newly provisioned user.
type CreateProfileParams struct {
	UserId            string
	Email             string
	FirstName         string
	LastName          string
	Address1          string
	City              string
	State             string
	PostalCode        string
	DateOfBirth       string
	DwollaCustomerId  string
	DwollaCustomerUrl string
}

// CreateBankParams contains the local mapping for one linked external account.
type CreateBankParams struct {
	UserId           string
	ItemId           string
	AccountId        string
	AccessToken      string
	FundingSourceUrl string
	ShareableId      string
}

// RecordTransferParams captures a transfer that the payment network accepted.
type RecordTransferParams struct {
	Name           string
	Amount         decimal.Decimal
	Email          string
	SenderId       string
	SenderBankId   string
	ReceiverId     string
	ReceiverBankId string
	TransferUrl    string
}

// ProfileStore persists provisioned user profiles. At most one per identity.
type ProfileStore interface {
	CreateProfile(ctx context.Context, params CreateProfileParams) (*models.Profile, error)
	GetProfileByUserId(ctx context.Context, userId string) (*models.Profile, error)
}

// BankStore persists linked bank accounts. CreateBank must return
// ErrDuplicateBank when the external account id is already linked, enforced by
// the backend itself and not only by a prior lookup.
type BankStore interface {
	CreateBank(ctx context.Context, params CreateBankParams) (*models.Bank, error)
	GetBanks(ctx context.Context, userId string) ([]models.Bank, error)
	GetBank(ctx context.Context, bankId string) (*models.Bank, error)
	GetBankByAccountId(ctx context.Context, accountId string) (*models.Bank, error)
}

// TransferJournal records internal transfers and lists them per bank.
// Implemented by SQLite and by Formance.
type TransferJournal interface {
	RecordTransfer(ctx context.Context, params RecordTransferParams) (*models.Transfer, error)
	GetTransfersByBankId(ctx context.Context, bankId string) ([]models.Transfer, error)
}

// Store is the full local persistence surface.
type Store interface {
	ProfileStore
	BankStore
	TransferJournal

	Ping(ctx context.Context) error
	Close()
}
