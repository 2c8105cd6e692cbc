package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username: "  alice.test  ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice.test", req.Username)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := LoginRequest{
		Username: "<script>alert('x')</script>",
		Password: "password123",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Username, "&lt;script&gt;")
	assert.NotContains(t, req.Username, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	acc := "  royalties.collectibles  "
	req := UpdateSaleRequest{
		Price:          10,
		RoyaltyAccount: &acc,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "royalties.collectibles", *req.RoyaltyAccount)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UpdateSaleRequest{Price: 10, RoyaltyAccount: nil}
	SanitizeStruct(&req)
	assert.Nil(t, req.RoyaltyAccount)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"alice.test",
		"mint-ref_001",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ref 001",     // space
		"ref<001>",    // angle brackets
		"ref;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"ref\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
