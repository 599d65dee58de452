package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interfaces are importable and usable.
func TestStoreInterfacesExist(t *testing.T) {
	_ = CreateProfileParams{}
	_ = CreateBankParams{}
	_ = RecordTransferParams{}

	var _ Store
	var _ TransferJournal
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	wrapped := fmt.Errorf("insert bank acc_1: %w", ErrDuplicateBank)
	if !errors.Is(wrapped, ErrDuplicateBank) {
		t.Fatal("expected wrapped duplicate bank error to match")
	}
	if errors.Is(wrapped, ErrDuplicateProfile) || errors.Is(wrapped, ErrNotFound) {
		t.Fatal("duplicate bank error matched an unrelated sentinel")
	}
}
