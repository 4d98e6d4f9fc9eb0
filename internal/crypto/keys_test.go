package crypto

import (
	"bytes"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	a, err := DeriveKey("secret", PurposeSessionToken)
	if err != nil {
		t.Fatalf("DeriveKey() unexpected error: %v", err)
	}
	b, _ := DeriveKey("secret", PurposeSessionToken)

	if len(a) != 32 {
		t.Errorf("len(key) = %d, want 32", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Error("DeriveKey() not deterministic")
	}
	if bytes.Equal(a, []byte("secret")) {
		t.Error("DeriveKey() returned the raw secret")
	}
}

func TestDeriveKeySeparatesPurposes(t *testing.T) {
	a, _ := DeriveKey("secret", PurposeSessionToken)
	b, _ := DeriveKey("secret", "something else")

	if bytes.Equal(a, b) {
		t.Error("different purposes produced the same key")
	}
}

func TestDeriveKeyEmptySecret(t *testing.T) {
	if _, err := DeriveKey("", PurposeSessionToken); err == nil {
		t.Error("DeriveKey() expected error for empty secret")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	if err != nil {
		t.Fatalf("RandomToken() unexpected error: %v", err)
	}
	b, _ := RandomToken(32)

	if len(a) != 43 {
		t.Errorf("len(token) = %d, want 43", len(a))
	}
	if a == b {
		t.Error("RandomToken() returned the same value twice")
	}
}
