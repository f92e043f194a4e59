package model

import "time"

// PaymentStatus is the derived payment state of a booking.  It is never
// set directly; DerivePaymentStatus recomputes it after every payment-
// affecting mutation.
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentFullyPaid   PaymentStatus = "fully_paid"
)

// PaymentType classifies a monetary event against a booking.
type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeBalance PaymentType = "balance"
	PaymentTypeTip     PaymentType = "tip"
)

// IsValid reports whether t is a recognized payment type.
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeDeposit, PaymentTypeBalance, PaymentTypeTip:
		return true
	}
	return false
}

// Payment is an append-only record of money received against a booking.
// Payments are only ever inserted; the booking's money fields are the
// cumulative effect of its payments.  Corresponds to the `payments` table.
//
// Fields:
//  ID           – primary key identifier.
//  BookingID    – booking the payment applies to.
//  AmountCents  – amount received, in integer cents.
//  Type         – deposit, balance or tip.
//  ProcessorRef – identifier assigned by the payment processor.
//  CreatedAt    – when the payment was recorded.
type Payment struct {
	ID           uint64      // payments.id
	BookingID    uint64      // payments.booking_id
	AmountCents  int64       // payments.amount_cents
	Type         PaymentType // payments.type
	ProcessorRef string      // payments.processor_ref
	CreatedAt    time.Time   // payments.created_at
}

// ApplyPayment folds a payment into the booking's money fields using
// integer cent arithmetic only.  Deposits grow DepositPaidCents and
// shrink BalanceDueCents by the same amount, floored at zero.  Balance
// payments only shrink BalanceDueCents.  Tips are recorded but leave the
// money fields untouched.  The derived payment status is recomputed
// before returning.
func (b *Booking) ApplyPayment(amountCents int64, typ PaymentType) {
	switch typ {
	case PaymentTypeDeposit, PaymentTypeBalance:
		// DepositPaidCents accumulates every payment toward the trip
		// price so that DepositPaidCents + BalanceDueCents always equals
		// TotalPriceCents.  Overpayment is floored at the open balance.
		applied := amountCents
		if applied > b.BalanceDueCents {
			applied = b.BalanceDueCents
		}
		b.DepositPaidCents += applied
		b.BalanceDueCents -= applied
	case PaymentTypeTip:
		// Tips never count toward the trip price.
	}
	b.PaymentStatus = b.DerivePaymentStatus()
}

// DerivePaymentStatus computes the payment status from the money fields:
// unpaid until anything is received, deposit_paid while a balance
// remains, fully_paid once the balance reaches zero.
func (b *Booking) DerivePaymentStatus() PaymentStatus {
	switch {
	case b.DepositPaidCents > 0 && b.BalanceDueCents == 0:
		return PaymentFullyPaid
	case b.DepositPaidCents > 0:
		return PaymentDepositPaid
	default:
		return PaymentUnpaid
	}
}
