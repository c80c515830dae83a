package money

// Contribution is one party's share of a total being apportioned a cost.
type Contribution struct {
	WalletID int64
	Amount   Money
}

// SplitProportional apportions total across contributions in proportion to
// each contribution's Amount, rounding every share HALF_EVEN to Scale digits.
// The rounding residue (total minus the sum of the rounded shares) is
// assigned to the largest contributor; ties are broken in favor of the
// smallest WalletID, matching the network-fee split rule.
func SplitProportional(total Money, contributions []Contribution) map[int64]Money {
	shares := make(map[int64]Money, len(contributions))
	if len(contributions) == 0 {
		return shares
	}
	sum := Zero
	for _, c := range contributions {
		sum = sum.Add(c.Amount)
	}
	if sum.IsZero() {
		return shares
	}

	allocated := Zero
	for _, c := range contributions {
		share := total.d.Mul(c.Amount.d).Div(sum.d).RoundBank(Scale)
		shares[c.WalletID] = Money{d: share}
		allocated = allocated.Add(Money{d: share})
	}

	residue := total.Sub(allocated)
	if residue.IsZero() {
		return shares
	}

	largest := contributions[0]
	for _, c := range contributions[1:] {
		if c.Amount.Cmp(largest.Amount) > 0 {
			largest = c
		} else if c.Amount.Cmp(largest.Amount) == 0 && c.WalletID < largest.WalletID {
			largest = c
		}
	}
	shares[largest.WalletID] = shares[largest.WalletID].Add(residue)
	return shares
}
