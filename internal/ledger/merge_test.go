package ledger

import (
	"testing"
	"time"

	"finance-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestMerge_TransferAfterExternalSortsFirstAsDebit(t *testing.T) {
	external := []models.ExternalTransaction{
		{Id: "ext-1", Name: "Coffee", Amount: decimal.RequireFromString("4.25"), Date: t0},
	}
	transfers := []models.Transfer{
		{Id: "tr-1", Name: "Rent", Amount: decimal.NewFromInt(500), SenderBankId: "bank-a", ReceiverBankId: "bank-b", CreatedAt: t0.Add(time.Hour)},
	}

	entries := Merge("bank-a", external, transfers)
	require.Len(t, entries, 2)
	assert.Equal(t, "tr-1", entries[0].Id)
	assert.Equal(t, models.DirectionDebit, entries[0].Type)
	assert.Equal(t, models.SourceTransfer, entries[0].Source)
	assert.Equal(t, "ext-1", entries[1].Id)
	assert.Equal(t, models.SourceExternal, entries[1].Source)
}

func TestMerge_ReceiverSeesCredit(t *testing.T) {
	transfers := []models.Transfer{
		{Id: "tr-1", SenderBankId: "bank-a", ReceiverBankId: "bank-b", CreatedAt: t0},
	}
	entries := Merge("bank-b", nil, transfers)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DirectionCredit, entries[0].Type)
}

func TestMerge_ExternalDirectionFollowsSign(t *testing.T) {
	external := []models.ExternalTransaction{
		{Id: "out", Amount: decimal.NewFromInt(10), Date: t0},
		{Id: "in", Amount: decimal.NewFromInt(-10), Date: t0.Add(-time.Hour)},
	}
	entries := Merge("bank-a", external, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, models.DirectionDebit, entries[0].Type)
	assert.Equal(t, models.DirectionCredit, entries[1].Type)
}

func TestMerge_TiesListExternalBeforeTransfers(t *testing.T) {
	external := []models.ExternalTransaction{
		{Id: "ext-1", Date: t0},
		{Id: "ext-2", Date: t0},
	}
	transfers := []models.Transfer{
		{Id: "tr-1", SenderBankId: "bank-a", CreatedAt: t0},
	}

	want := []string{"ext-1", "ext-2", "tr-1"}
	for i := 0; i < 5; i++ {
		entries := Merge("bank-a", external, transfers)
		got := make([]string, len(entries))
		for j, e := range entries {
			got[j] = e.Id
		}
		assert.Equal(t, want, got)
	}
}

func TestMerge_SingleTieExternalFirst(t *testing.T) {
	external := []models.ExternalTransaction{{Id: "ext-1", Date: t0}}
	transfers := []models.Transfer{{Id: "tr-1", SenderBankId: "b", ReceiverBankId: "c", CreatedAt: t0}}

	entries := Merge("b", external, transfers)
	require.Len(t, entries, 2)
	assert.Equal(t, "ext-1", entries[0].Id)
	assert.Equal(t, "tr-1", entries[1].Id)
}

func TestMerge_CarriesMerchantLogo(t *testing.T) {
	external := []models.ExternalTransaction{
		{Id: "ext-1", Date: t0, LogoUrl: "https://plaid-merchant-logos.plaid.com/starbucks.png"},
	}
	transfers := []models.Transfer{{Id: "tr-1", SenderBankId: "bank-a", CreatedAt: t0.Add(-time.Hour)}}

	entries := Merge("bank-a", external, transfers)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://plaid-merchant-logos.plaid.com/starbucks.png", entries[0].Image)
	assert.Empty(t, entries[1].Image)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge("bank-a", nil, nil))
}

func TestFilterByAccount(t *testing.T) {
	txs := []models.ExternalTransaction{
		{Id: "1", AccountId: "a"},
		{Id: "2", AccountId: "b"},
		{Id: "3", AccountId: "a"},
	}
	got := FilterByAccount(txs, "a")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Id)
	assert.Equal(t, "3", got[1].Id)
}
