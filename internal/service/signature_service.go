package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HMACSignatureService implements ports.SignatureService. Asset contracts
// sign their inbound transfer notifications with the shared notify secret;
// the notify middleware verifies the signature over the canonical string
// before the vault receiver runs.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMACSignatureService.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign returns the lowercase hex HMAC-SHA256 of payload under secretKey.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the HMAC of payload under secretKey,
// comparing in constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// BuildCanonicalString assembles the signed request representation
// METHOD|PATH|TIMESTAMP|NONCE|BODY. Both sides must produce this string
// byte-for-byte; the timestamp is Unix seconds, the body is raw.
func (s *HMACSignatureService) BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s", method, path, timestamp, nonce, body)
}
