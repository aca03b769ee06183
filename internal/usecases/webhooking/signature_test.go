package webhooking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "segredo-compartilhado"
	body := []byte(`{"event":"pedido_venda.created","data":{"id":123}}`)

	tests := []struct {
		name      string
		body      []byte
		signature string
		valid     bool
	}{
		{
			name:      "Assinatura correta em hex puro",
			body:      body,
			signature: signBody(secret, body),
			valid:     true,
		},
		{
			name:      "Assinatura correta com prefixo sha256=",
			body:      body,
			signature: "sha256=" + signBody(secret, body),
			valid:     true,
		},
		{
			name:      "Assinatura em maiúsculas é normalizada",
			body:      body,
			signature: "sha256=" + hexUpper(signBody(secret, body)),
			valid:     true,
		},
		{
			name:      "Corpo adulterado invalida a assinatura",
			body:      []byte(`{"event":"pedido_venda.created","data":{"id":999}}`),
			signature: signBody(secret, body),
			valid:     false,
		},
		{
			name:      "Assinatura gerada com outro segredo",
			body:      body,
			signature: signBody("outro-segredo", body),
			valid:     false,
		},
		{
			name:      "Cabeçalho vazio",
			body:      body,
			signature: "",
			valid:     false,
		},
		{
			name:      "Apenas o prefixo sem digest",
			body:      body,
			signature: "sha256=",
			valid:     false,
		},
		{
			name:      "Digest truncado",
			body:      body,
			signature: signBody(secret, body)[:32],
			valid:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, VerifySignature(secret, tt.body, tt.signature))
		})
	}
}

func hexUpper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}
