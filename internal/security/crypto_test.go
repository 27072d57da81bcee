package security_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/Rrens/mika-travel/internal/security"
)

func testSealer(t *testing.T) *security.Sealer {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	s, err := security.NewSealer(key)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	return s
}

func TestSealer_SealOpen(t *testing.T) {
	sealer := testSealer(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "hello"},
		{"chat", `{"role":"user","content":"Is Hoi An walkable?"}`},
		{"unicode", "Hello 👋! I'm Mika. 日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := sealer.Seal([]byte(tt.plaintext))
			if err != nil {
				t.Fatalf("seal failed: %v", err)
			}

			if len(tt.plaintext) > 0 && bytes.Contains(ciphertext, []byte(tt.plaintext)) {
				t.Error("ciphertext contains plaintext")
			}

			plaintext, err := sealer.Open(ciphertext)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}

			if string(plaintext) != tt.plaintext {
				t.Errorf("got %q, want %q", plaintext, tt.plaintext)
			}
		})
	}
}

func TestSealer_NonceIsRandom(t *testing.T) {
	sealer := testSealer(t)

	a, _ := sealer.Seal([]byte("same"))
	b, _ := sealer.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestSealer_OpenTampered(t *testing.T) {
	sealer := testSealer(t)

	ciphertext, err := sealer.Seal([]byte("state"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := sealer.Open(ciphertext); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
	if _, err := sealer.Open([]byte("x")); err == nil {
		t.Error("expected error for short ciphertext")
	}
}

func TestSealer_JSON(t *testing.T) {
	sealer := testSealer(t)

	type payload struct {
		UID   string   `json:"uid"`
		Trips []string `json:"trips"`
	}
	in := payload{UID: "uid-1", Trips: []string{"Hanoi", "Hue"}}

	sealed, err := sealer.SealJSON(in)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	var out payload
	if err := sealer.OpenJSON(sealed, &out); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if out.UID != in.UID || len(out.Trips) != 2 || out.Trips[1] != "Hue" {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestNewSealer_InvalidKey(t *testing.T) {
	for _, size := range []int{0, 15, 17, 31, 33} {
		if _, err := security.NewSealer(make([]byte, size)); err == nil {
			t.Errorf("expected error for key length %d", size)
		}
	}
}

func TestNewSealerFromConfig(t *testing.T) {
	if _, err := security.NewSealerFromConfig(""); err == nil {
		t.Error("expected error for empty secret")
	}

	key, err := security.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if raw, _ := base64.StdEncoding.DecodeString(key); len(raw) != 32 {
		t.Errorf("generated key has %d bytes", len(raw))
	}

	fromKey, err := security.NewSealerFromConfig(key)
	if err != nil {
		t.Fatalf("base64 key: %v", err)
	}
	fromPhrase, err := security.NewSealerFromConfig("correct horse battery staple")
	if err != nil {
		t.Fatalf("passphrase: %v", err)
	}

	sealed, _ := fromPhrase.Seal([]byte("x"))
	if _, err := fromKey.Open(sealed); err == nil {
		t.Error("different secrets should not open each other's data")
	}

	again, _ := security.NewSealerFromConfig("correct horse battery staple")
	if got, err := again.Open(sealed); err != nil || string(got) != "x" {
		t.Errorf("same passphrase should derive the same key: %v", err)
	}
}
