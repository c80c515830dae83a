package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	m, err := Parse("1.50000000")
	require.Nil(t, err)
	require.Equal(t, "1.50000000", m.String())
}

func TestAddSub(t *testing.T) {
	a := MustParse("2.00000000")
	b := MustParse("0.00010000")
	require.Equal(t, "1.99990000", a.Sub(b).String())
	require.Equal(t, "2.00010000", a.Add(b).String())
}

func TestIsDust(t *testing.T) {
	dust := MustParse("0.00005430")
	require.True(t, MustParse("0.00000001").IsDust(dust))
	require.False(t, MustParse("1.00000000").IsDust(dust))
	require.True(t, dust.IsDust(dust))
}

func TestSplitProportionalSingleWallet(t *testing.T) {
	fee := MustParse("0.0001")
	shares := SplitProportional(fee, []Contribution{{WalletID: 1, Amount: MustParse("1.0")}})
	require.Equal(t, "0.00010000", shares[1].String())
}

func TestSplitProportionalMultiWalletResidueGoesToLargest(t *testing.T) {
	// 10 satoshi over 0.2/0.1/0.1: rounded shares are 5, 2 and 2 (2.5 rounds
	// to even), leaving a 1-satoshi residue for wallet 2.
	fee := MustParse("0.0000001")
	shares := SplitProportional(fee, []Contribution{
		{WalletID: 2, Amount: MustParse("0.2")},
		{WalletID: 3, Amount: MustParse("0.1")},
		{WalletID: 1, Amount: MustParse("0.1")},
	})
	total := Zero
	for _, s := range shares {
		total = total.Add(s)
	}
	require.Equal(t, fee.String(), total.String())
	require.Equal(t, "0.00000006", shares[2].String())
}
