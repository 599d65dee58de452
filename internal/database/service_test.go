package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	service := NewServiceFromDB(db)
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func insertTestBank(t *testing.T, s *Service, userId, accountId string) *models.Bank {
	bank, err := s.CreateBank(context.Background(), store.CreateBankParams{
		UserId:           userId,
		ItemId:           "item-" + userId,
		AccountId:        accountId,
		AccessToken:      "access-" + userId,
		FundingSourceUrl: "https://api.dwolla.test/funding-sources/" + accountId,
		ShareableId:      "share-" + accountId,
	})
	if err != nil {
		t.Fatalf("CreateBank failed: %v", err)
	}
	return bank
}

func TestInitSchema_Idempotent(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	if err := service.InitSchema(); err != nil {
		t.Fatalf("Second InitSchema failed: %v", err)
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  models.DatabaseConfig
	}{
		{"empty path", models.DatabaseConfig{MaxOpenConns: 1, PingTimeout: time.Second}},
		{"zero open conns", models.DatabaseConfig{Path: "x.db", PingTimeout: time.Second}},
		{"negative idle conns", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1, MaxIdleConns: -1, PingTimeout: time.Second}},
		{"zero ping timeout", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(ctx, tt.cfg); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestProfile_CreateAndGet(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	created, err := service.CreateProfile(ctx, store.CreateProfileParams{
		UserId:            "user1",
		Email:             "ada@example.com",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		DateOfBirth:       "1990-01-01",
		DwollaCustomerId:  "cust-1",
		DwollaCustomerUrl: "https://api.dwolla.test/customers/cust-1",
	})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	got, err := service.GetProfileByUserId(ctx, "user1")
	if err != nil {
		t.Fatalf("GetProfileByUserId failed: %v", err)
	}

	if got.Id != created.Id {
		t.Errorf("Expected id %s, got %s", created.Id, got.Id)
	}
	if got.DwollaCustomerId != "cust-1" {
		t.Errorf("Expected customer id cust-1, got %s", got.DwollaCustomerId)
	}
	if got.FullName() != "Ada Lovelace" {
		t.Errorf("Expected full name 'Ada Lovelace', got %q", got.FullName())
	}
}

func TestProfile_DuplicateUser(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	params := store.CreateProfileParams{UserId: "user1", Email: "a@example.com", FirstName: "A", LastName: "B", DateOfBirth: "1990-01-01"}

	if _, err := service.CreateProfile(ctx, params); err != nil {
		t.Fatalf("First CreateProfile failed: %v", err)
	}
	_, err := service.CreateProfile(ctx, params)
	if !errors.Is(err, store.ErrDuplicateProfile) {
		t.Errorf("Expected ErrDuplicateProfile, got %v", err)
	}
}

func TestProfile_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.GetProfileByUserId(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBank_Lookups(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := insertTestBank(t, service, "user1", "acc-1")
	insertTestBank(t, service, "user1", "acc-2")
	insertTestBank(t, service, "user2", "acc-3")

	banks, err := service.GetBanks(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBanks failed: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("Expected 2 banks for user1, got %d", len(banks))
	}

	byId, err := service.GetBank(ctx, first.Id)
	if err != nil {
		t.Fatalf("GetBank failed: %v", err)
	}
	if byId.AccountId != "acc-1" {
		t.Errorf("Expected account acc-1, got %s", byId.AccountId)
	}

	byAccount, err := service.GetBankByAccountId(ctx, "acc-3")
	if err != nil {
		t.Fatalf("GetBankByAccountId failed: %v", err)
	}
	if byAccount.UserId != "user2" {
		t.Errorf("Expected user2, got %s", byAccount.UserId)
	}

	if _, err := service.GetBank(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing bank, got %v", err)
	}
	if _, err := service.GetBankByAccountId(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing account, got %v", err)
	}
}

func TestBank_NoBanks(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	banks, err := service.GetBanks(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetBanks failed: %v", err)
	}
	if len(banks) != 0 {
		t.Errorf("Expected no banks, got %d", len(banks))
	}
}

func TestBank_ConcurrentDuplicateInsert(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CreateBank(ctx, store.CreateBankParams{
				UserId:           "user1",
				ItemId:           "item1",
				AccountId:        "acc-shared",
				AccessToken:      "token",
				FundingSourceUrl: "https://api.dwolla.test/funding-sources/1",
				ShareableId:      "share",
			})
		}(i)
	}
	wg.Wait()

	created, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, store.ErrDuplicateBank):
			duplicates++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if created != 1 {
		t.Errorf("Expected exactly 1 insert to succeed, got %d", created)
	}
	if duplicates != workers-1 {
		t.Errorf("Expected %d duplicates, got %d", workers-1, duplicates)
	}

	banks, err := service.GetBanks(ctx, "user1")
	if err != nil {
		t.Fatalf("GetBanks failed: %v", err)
	}
	if len(banks) != 1 {
		t.Errorf("Expected 1 stored bank, got %d", len(banks))
	}
}

func TestTransfer_RecordAndList(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	a := insertTestBank(t, service, "user1", "acc-a")
	b := insertTestBank(t, service, "user2", "acc-b")
	c := insertTestBank(t, service, "user3", "acc-c")

	_, err := service.RecordTransfer(ctx, store.RecordTransferParams{
		Name:           "Rent",
		Amount:         decimal.RequireFromString("25.50"),
		Email:          "b@example.com",
		SenderId:       "user1",
		SenderBankId:   a.Id,
		ReceiverId:     "user2",
		ReceiverBankId: b.Id,
		TransferUrl:    "https://api.dwolla.test/transfers/1",
	})
	if err != nil {
		t.Fatalf("RecordTransfer failed: %v", err)
	}

	_, err = service.RecordTransfer(ctx, store.RecordTransferParams{
		Name:           "Refund",
		Amount:         decimal.RequireFromString("5"),
		SenderId:       "user3",
		SenderBankId:   c.Id,
		ReceiverId:     "user1",
		ReceiverBankId: a.Id,
	})
	if err != nil {
		t.Fatalf("RecordTransfer failed: %v", err)
	}

	transfersA, err := service.GetTransfersByBankId(ctx, a.Id)
	if err != nil {
		t.Fatalf("GetTransfersByBankId failed: %v", err)
	}
	if len(transfersA) != 2 {
		t.Fatalf("Expected 2 transfers for bank a, got %d", len(transfersA))
	}

	transfersB, err := service.GetTransfersByBankId(ctx, b.Id)
	if err != nil {
		t.Fatalf("GetTransfersByBankId failed: %v", err)
	}
	if len(transfersB) != 1 {
		t.Fatalf("Expected 1 transfer for bank b, got %d", len(transfersB))
	}
	if !transfersB[0].Amount.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("Expected amount 25.5, got %s", transfersB[0].Amount)
	}
	if transfersB[0].DirectionFor(b.Id) != models.DirectionCredit {
		t.Errorf("Expected credit for receiver bank")
	}
	if transfersB[0].DirectionFor(a.Id) != models.DirectionDebit {
		t.Errorf("Expected debit for sender bank")
	}
	if transfersB[0].Category != "Transfer" {
		t.Errorf("Expected category Transfer, got %s", transfersB[0].Category)
	}
}

func TestTransfer_MissingBankIds(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.RecordTransfer(context.Background(), store.RecordTransferParams{
		Name:   "bad",
		Amount: decimal.NewFromInt(1),
	})
	if err == nil {
		t.Error("Expected error for missing bank ids")
	}
}
