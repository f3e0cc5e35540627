package utils

import "testing"

func TestAdminKeyRoundTrip(t *testing.T) {
	hash, err := HashAdminKey("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckAdminKey(hash, "hunter2") {
		t.Error("correct key rejected")
	}
	if CheckAdminKey(hash, "wrong") {
		t.Error("wrong key accepted")
	}
}

func TestAdminKeyDisabledByEmptyHash(t *testing.T) {
	if CheckAdminKey("", "anything") {
		t.Error("empty hash must disable admin access")
	}
	if CheckAdminKey("$2a$10$abcdefghijklmnopqrstuv", "") {
		t.Error("empty key accepted")
	}
}
