package storage

import "testing"

func TestNewClient(t *testing.T) {
	client, err := NewClient("localhost:6379", "", 1)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	if client == nil {
		t.Fatal("Client should not be nil")
	}
}

func TestNewClientBadAddr(t *testing.T) {
	if _, err := NewClient("localhost:1", "", 0); err == nil {
		t.Fatal("Unreachable address should fail")
	}
}
