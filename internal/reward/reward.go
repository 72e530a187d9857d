// Package reward implements the business rules behind the referral
// program: the voucher tier grid and annual cap for individual partners,
// the percentage commission for business partners, and the
// anniversary-anchored eligibility window both are counted against.
// Everything in this package is pure; persistence and transaction scoping
// live in the repository layer.
package reward

// MaxAnnualReferrals caps how many installed referrals an individual
// partner may be rewarded for within one eligibility window.
const MaxAnnualReferrals = 5

// CommissionRate is the business-partner commission on the net sale
// amount, expressed in percent.
const CommissionRate = 5

// voucherTiers maps an individual partner's installed-referral ordinal
// within the current eligibility window to the voucher amount in cents.
// Tiers are not cumulative: the partner receives only the amount for the
// ordinal just reached.
var voucherTiers = map[int]int64{
	1: 25_000,
	2: 50_000,
	3: 90_000,
	4: 115_000,
	5: 150_000,
}

// VoucherAmount returns the voucher amount in cents for the given
// installed-referral ordinal (counted post-increment, i.e. including the
// referral just installed). Ordinals outside the tier grid yield 0,
// meaning no reward record should be created. The annual cap normally
// makes ordinals above MaxAnnualReferrals unreachable, but the lookup
// stays total rather than erroring if one slips through.
func VoucherAmount(ordinal int) int64 {
	return voucherTiers[ordinal]
}

// CommissionAmount returns the business-partner commission in cents for a
// net sale amount in cents.
func CommissionAmount(netCents int64) int64 {
	return netCents * CommissionRate / 100
}
