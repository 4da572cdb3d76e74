package rdb

import "time"

type PaymentMode string

const (
	PaymentAtomic PaymentMode = "atomic"
	PaymentSimple PaymentMode = "simple"
)

// PaymentInstruction is what the consensus runtime receives for one payment.
type PaymentInstruction struct {
	Id        string
	Mode      PaymentMode
	Token     TokenId
	Amount    Amount
	Route     *Route
	HashLock  string
	Secret    string
	CreatedAt time.Time
}
