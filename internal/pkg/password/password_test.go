package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndMatches(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "password" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !hasher.Matches("password", hash) {
		t.Error("Matches() = false for the correct password")
	}
	if hasher.Matches("bogus", hash) {
		t.Error("Matches() = true for the wrong password")
	}
	if hasher.Matches("password", "not a bcrypt hash") {
		t.Error("Matches() = true for a malformed stored hash")
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "below minimum", cost: 1, want: bcrypt.DefaultCost},
		{name: "above maximum", cost: 99, want: bcrypt.DefaultCost},
		{name: "in range", cost: 6, want: 6},
		{name: "zero means default", cost: 0, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.cost)
			if h.cost != tt.want {
				t.Errorf("NewHasher(%d).cost = %d, want %d", tt.cost, h.cost, tt.want)
			}
		})
	}
}
