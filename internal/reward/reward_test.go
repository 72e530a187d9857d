package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoucherAmount(t *testing.T) {
	tests := []struct {
		name    string
		ordinal int
		want    int64
	}{
		{"first referral", 1, 25_000},
		{"second referral", 2, 50_000},
		{"third referral", 3, 90_000},
		{"fourth referral", 4, 115_000},
		{"fifth referral", 5, 150_000},
		{"zero ordinal", 0, 0},
		{"beyond cap", 6, 0},
		{"negative ordinal", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VoucherAmount(tt.ordinal))
		})
	}
}

func TestVoucherTiersNotCumulative(t *testing.T) {
	// The grid pays the tier amount only, not the running sum of all tiers
	// reached. The fourth referral pays 1150€, not 250+500+900+1150.
	var total int64
	for ordinal := 1; ordinal <= MaxAnnualReferrals; ordinal++ {
		total += VoucherAmount(ordinal)
		assert.NotEqual(t, total, VoucherAmount(ordinal+1))
	}
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		name     string
		netCents int64
		want     int64
	}{
		{"ten thousand euros nets five hundred", 1_000_000, 50_000},
		{"small sale", 10_000, 500},
		{"rounds down on odd cents", 1_999, 99},
		{"zero net", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommissionAmount(tt.netCents))
		})
	}
}
