package router

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/xlnfinance/xln-sub004/rdb"
	"golang.org/x/crypto/sha3"
)

// Submitter hands payment instructions to the consensus runtime. A route is
// advisory; the runtime may still reject the payment if capacity moved.
type Submitter interface {
	SubmitPayment(ctx context.Context, instruction *rdb.PaymentInstruction) error
}

// BuildPayment packages route into an instruction. Atomic payments carry a
// fresh secret and its keccak256 hash lock.
func BuildPayment(route *rdb.Route, mode rdb.PaymentMode) (*rdb.PaymentInstruction, error) {
	if route == nil || len(route.Path) < 2 {
		return nil, errors.New("Payment needs a route")
	}

	instruction := &rdb.PaymentInstruction{
		Id:        uuid.NewString(),
		Mode:      mode,
		Token:     route.Token,
		Amount:    route.RecipientAmount,
		Route:     route,
		CreatedAt: time.Now().UTC(),
	}

	switch mode {
	case rdb.PaymentSimple:
	case rdb.PaymentAtomic:
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Errorf("Could not generate secret: %v", err)
		}
		instruction.Secret = "0x" + hex.EncodeToString(secret)
		instruction.HashLock = HashLock(secret)
	default:
		return nil, rdb.InvalidRequestError{Field: "mode", Reason: "expected atomic or simple, got " + string(mode)}
	}

	return instruction, nil
}

func HashLock(secret []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(secret)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
