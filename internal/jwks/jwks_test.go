package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

func newKeyPair(t *testing.T, kid string) (jwk.Key, jwk.Key) {
	t.Helper()
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	priv, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	_ = priv.Set(jwk.KeyIDKey, kid)
	_ = priv.Set(jwk.AlgorithmKey, jwa.ES256())

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	_ = pub.Set(jwk.KeyIDKey, kid)
	_ = pub.Set(jwk.AlgorithmKey, jwa.ES256())
	return priv, pub
}

func signToken(t *testing.T, priv jwk.Key, sub string) string {
	t.Helper()
	b := jwt.NewBuilder().
		Issuer("https://id.example").
		Expiration(time.Now().Add(time.Hour))
	if sub != "" {
		b = b.Subject(sub)
	}
	tok, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256(), priv))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return string(signed)
}

func setOf(t *testing.T, keys ...jwk.Key) jwk.Set {
	t.Helper()
	set := jwk.NewSet()
	for _, k := range keys {
		if err := set.AddKey(k); err != nil {
			t.Fatalf("add key: %v", err)
		}
	}
	return set
}

func TestResolver_Subject(t *testing.T) {
	priv, pub := newKeyPair(t, "k1")
	r := NewResolver(setOf(t, pub), WithIssuer("https://id.example"))

	tok := signToken(t, priv, "alice")
	for _, cred := range []string{tok, "Bearer " + tok} {
		sub, err := r.Subject(context.Background(), cred)
		if err != nil {
			t.Fatalf("Subject error: %v", err)
		}
		if sub != "alice" {
			t.Fatalf("sub = %q, want alice", sub)
		}
	}
}

func TestResolver_Rejects(t *testing.T) {
	priv, pub := newKeyPair(t, "k1")
	otherPriv, _ := newKeyPair(t, "k1")

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not-a-jwt",
		"wrong key":   signToken(t, otherPriv, "alice"),
		"no subject":  signToken(t, priv, ""),
		"only scheme": "Bearer ",
	}
	r := NewResolver(setOf(t, pub))
	for name, cred := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := r.Subject(context.Background(), cred); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestResolver_WrongIssuer(t *testing.T) {
	priv, pub := newKeyPair(t, "k1")
	r := NewResolver(setOf(t, pub), WithIssuer("https://elsewhere"))
	if _, err := r.Subject(context.Background(), signToken(t, priv, "alice")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestLoad_File(t *testing.T) {
	_, pub := newKeyPair(t, "k1")
	b, err := json.Marshal(setOf(t, pub))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p := filepath.Join(t.TempDir(), "jwks.json")
	if err := os.WriteFile(p, b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	set, err := Load(context.Background(), p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("keys = %d, want 1", set.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty source")
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
