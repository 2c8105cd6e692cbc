package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vaultNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestValidAssetContract(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"usdt.tether-token", true},
		{"wrap", true},
		{"a1.b2.c3", true},
		{"token_contract", true},
		{"", false},
		{"x", false},
		{"UPPER", false},
		{".leading", false},
		{"trailing.", false},
		{"double..dot", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAssetContract(tt.in))
		})
	}
}

func TestNewVault_Valid(t *testing.T) {
	v, err := NewVault(7, "alice", 1000, []TokenDeposit{
		{AssetContract: "usdt.tether", Amount: 100},
		{AssetContract: "wrap.testnet", Amount: 50},
	}, vaultNow)
	require.NoError(t, err)

	assert.Equal(t, int64(7), v.ItemID)
	assert.False(t, v.BaseConfirmed)
	for _, d := range v.Deposits {
		assert.False(t, d.Confirmed, "all declarations start unconfirmed")
	}
}

func TestNewVault_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		deposits []TokenDeposit
	}{
		{"invalid contract id", 0, []TokenDeposit{{AssetContract: "Not Valid!", Amount: 10}}},
		{"zero amount", 0, []TokenDeposit{{AssetContract: "usdt.tether", Amount: 0}}},
		{"negative amount", 0, []TokenDeposit{{AssetContract: "usdt.tether", Amount: -5}}},
		{"pre-confirmed declaration", 0, []TokenDeposit{{AssetContract: "usdt.tether", Amount: 10, Confirmed: true}}},
		{"negative base", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVault(1, "alice", tt.base, tt.deposits, vaultNow)
			require.Error(t, err)
		})
	}
}

func TestFee(t *testing.T) {
	assert.Equal(t, int64(10), Fee(1000, 100)) // 1%
	assert.Equal(t, int64(0), Fee(99, 100))    // rounds down
	assert.Equal(t, int64(25), Fee(1000, 250))
}

func TestVault_ConfirmBase(t *testing.T) {
	v, err := NewVault(1, "alice", 1000, nil, vaultNow)
	require.NoError(t, err)

	// Exact amount: declared + 1% fee.
	fee, ok := v.ConfirmBase(1010, 100)
	require.True(t, ok)
	assert.Equal(t, int64(10), fee)
	assert.True(t, v.BaseConfirmed)

	// Second confirmation is rejected.
	_, ok = v.ConfirmBase(1010, 100)
	assert.False(t, ok)
}

func TestVault_ConfirmBase_ExactAmountOnly(t *testing.T) {
	for _, attached := range []int64{1000, 1009, 1011, 0} {
		v, err := NewVault(1, "alice", 1000, nil, vaultNow)
		require.NoError(t, err)

		_, ok := v.ConfirmBase(attached, 100)
		assert.False(t, ok, "attached=%d", attached)
		assert.False(t, v.BaseConfirmed, "mismatch must not mutate state")
	}
}

func TestVault_ConfirmBase_ZeroBaseNeverAccepts(t *testing.T) {
	v, err := NewVault(1, "alice", 0, nil, vaultNow)
	require.NoError(t, err)

	_, ok := v.ConfirmBase(0, 100)
	assert.False(t, ok)
}

func TestVault_MatchTokenDeposit(t *testing.T) {
	v, err := NewVault(1, "alice", 0, []TokenDeposit{
		{AssetContract: "usdt.tether", Amount: 100},
	}, vaultNow)
	require.NoError(t, err)

	// Expected transfer: declared 100 + 1% fee = 101.
	idx, fee, ok := v.MatchTokenDeposit("usdt.tether", 101, 100)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, int64(1), fee)
	assert.True(t, v.Deposits[0].Confirmed)

	// Already confirmed: reported unused.
	_, _, ok = v.MatchTokenDeposit("usdt.tether", 101, 100)
	assert.False(t, ok)
}

func TestVault_MatchTokenDeposit_WrongAmountFullyUnused(t *testing.T) {
	v, err := NewVault(1, "alice", 0, []TokenDeposit{
		{AssetContract: "usdt.tether", Amount: 100},
	}, vaultNow)
	require.NoError(t, err)

	_, _, ok := v.MatchTokenDeposit("usdt.tether", 100, 100)
	assert.False(t, ok)
	assert.False(t, v.Deposits[0].Confirmed, "mismatch never flips a confirmed flag")
}

func TestVault_MatchTokenDeposit_WrongContract(t *testing.T) {
	// Scenario: declaration for contract X, transfer arrives from contract Y
	// with the right magnitude. Must be fully unused.
	v, err := NewVault(1, "alice", 0, []TokenDeposit{
		{AssetContract: "contract-x", Amount: 100},
	}, vaultNow)
	require.NoError(t, err)

	_, _, ok := v.MatchTokenDeposit("contract-y", 101, 100)
	assert.False(t, ok)
	assert.False(t, v.Deposits[0].Confirmed)
}

func TestVault_AllConfirmed(t *testing.T) {
	v, err := NewVault(1, "alice", 500, []TokenDeposit{
		{AssetContract: "usdt.tether", Amount: 100},
	}, vaultNow)
	require.NoError(t, err)

	assert.False(t, v.AllConfirmed())

	_, ok := v.ConfirmBase(505, 100)
	require.True(t, ok)
	assert.False(t, v.AllConfirmed())

	_, _, ok = v.MatchTokenDeposit("usdt.tether", 101, 100)
	require.True(t, ok)
	assert.True(t, v.AllConfirmed())
}

func TestVault_ConfirmedHoldings(t *testing.T) {
	v, err := NewVault(1, "alice", 500, []TokenDeposit{
		{AssetContract: "usdt.tether", Amount: 100},
		{AssetContract: "wrap.testnet", Amount: 50},
	}, vaultNow)
	require.NoError(t, err)

	_, ok := v.ConfirmBase(505, 100)
	require.True(t, ok)
	_, _, ok = v.MatchTokenDeposit("usdt.tether", 101, 100)
	require.True(t, ok)

	base, tokens := v.ConfirmedHoldings()
	assert.Equal(t, int64(500), base)
	require.Len(t, tokens, 1)
	assert.Equal(t, "usdt.tether", tokens[0].AssetContract)
}
