package webhooking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature valida a assinatura HMAC-SHA256 do corpo bruto do
// webhook. O cabeçalho pode vir com ou sem o prefixo "sha256=". A
// comparação é em tempo constante.
func VerifySignature(secret string, body []byte, signatureHeader string) bool {
	signature := strings.TrimPrefix(signatureHeader, "sha256=")
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
