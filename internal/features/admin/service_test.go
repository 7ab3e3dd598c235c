package admin

import (
	"encoding/base64"
	"fmt"
	"testing"

	"golang.org/x/crypto/argon2"
)

// encodeTestHash собирает хеш в том же формате, что scripts/generate_hash.go.
func encodeTestHash(password string) string {
	salt := []byte("0123456789abcdef")
	hash := argon2.IDKey([]byte(password), salt, 3, 64*1024, 2, 32)
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		64*1024, 3, 2,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

func TestVerifyArgon2id(t *testing.T) {
	encoded := encodeTestHash("правильный-пароль")

	if !verifyArgon2id("правильный-пароль", encoded) {
		t.Error("correct password rejected")
	}
	if verifyArgon2id("неправильный", encoded) {
		t.Error("wrong password accepted")
	}
	if verifyArgon2id("", encoded) {
		t.Error("empty password accepted")
	}
}

func TestVerifyArgon2id_MalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"просто строка",
		"$argon2id$v=19$m=65536,t=3,p=2$соль",             // мало частей
		"$argon2id$v=19$битые-параметры$c2FsdA$aGFzaA",    // не парсятся m,t,p
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",       // битая соль
		"$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!",       // битый хеш
	}
	for _, h := range malformed {
		if verifyArgon2id("пароль", h) {
			t.Errorf("malformed hash %q accepted", h)
		}
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a := generateSecureToken()
	b := generateSecureToken()
	if a == b {
		t.Error("tokens must be unique")
	}
	if len(a) < 32 {
		t.Errorf("token too short: %d chars", len(a))
	}
}

func TestAdminState(t *testing.T) {
	svc := NewService(nil, nil)

	if svc.GetState(1) != nil {
		t.Error("fresh user should have no state")
	}

	svc.SetState(1, StateAwaitingPassword)
	state := svc.GetState(1)
	if state == nil || state.State != StateAwaitingPassword {
		t.Fatalf("state = %+v, want awaiting_password", state)
	}

	svc.ClearState(1)
	if svc.GetState(1) != nil {
		t.Error("state should be cleared")
	}
}
