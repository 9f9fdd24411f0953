package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	// Use mock keyring for testing
	gokeyring.MockInit()

	testToken := "ff_live_abc123"

	if err := SetToken(testToken); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	retrieved, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if retrieved != testToken {
		t.Errorf("GetToken() = %q, want %q", retrieved, testToken)
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestGetTokenNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteToken()

	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("ff_live_abc123"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() after delete = %v, want ErrNotFound", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
