package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerKind string

const (
	LedgerKindPayment      LedgerKind = "payment"
	LedgerKindRefund       LedgerKind = "refund"
	LedgerKindCompensation LedgerKind = "compensation"
)

type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "pending"
	LedgerStatusCompleted LedgerStatus = "completed"
	LedgerStatusFailed    LedgerStatus = "failed"
)

// LedgerEntry is one monetary movement tied to a reservation. Entries are
// append-only: a reservation holds at most one entry of each kind.
type LedgerEntry struct {
	ID            int64           `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Deposit       decimal.Decimal `json:"deposit"`
	Kind          LedgerKind      `json:"kind"`
	Status        LedgerStatus    `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TicketPrice is the non-deposit part of a payment entry.
func (e *LedgerEntry) TicketPrice() decimal.Decimal {
	return e.Amount.Sub(e.Deposit)
}

// NewPaymentEntry records the booking charge: ticket price plus deposit.
func NewPaymentEntry(r *Reservation, price, deposit decimal.Decimal, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		ReservationID: r.ID,
		UserID:        r.UserID,
		Amount:        price.Add(deposit),
		Deposit:       deposit,
		Kind:          LedgerKindPayment,
		Status:        LedgerStatusCompleted,
		CreatedAt:     at,
	}
}

func NewRefundEntry(r *Reservation, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		ReservationID: r.ID,
		UserID:        r.UserID,
		Amount:        amount,
		Deposit:       decimal.Zero,
		Kind:          LedgerKindRefund,
		Status:        LedgerStatusCompleted,
		CreatedAt:     at,
	}
}

// NewCompensationEntry records the deposit retained by the operator. It never
// touches the user balance.
func NewCompensationEntry(r *Reservation, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		ReservationID: r.ID,
		UserID:        r.UserID,
		Amount:        amount,
		Deposit:       decimal.Zero,
		Kind:          LedgerKindCompensation,
		Status:        LedgerStatusCompleted,
		CreatedAt:     at,
	}
}

type Balance struct {
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}
