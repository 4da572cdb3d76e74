package rdb

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

type InvalidRequestError struct {
	Field  string
	Reason string
}

func (err InvalidRequestError) Error() string {
	return fmt.Sprintf("Invalid %v: %v", err.Field, err.Reason)
}

type NoRouteError struct {
	Source            EntityId
	Destination       EntityId
	SelfPayment       bool
	MinIntermediaries int
}

func (err NoRouteError) Error() string {
	if err.SelfPayment {
		return fmt.Sprintf("No loop from %v back to itself through at least %v intermediaries", err.Source, err.MinIntermediaries)
	}
	return fmt.Sprintf("No route from %v to %v", err.Source, err.Destination)
}

type NoCapacityError struct {
	Amount     Amount
	Candidates int
}

func (err NoCapacityError) Error() string {
	return fmt.Sprintf("None of %v candidate paths can carry %v", err.Candidates, err.Amount)
}

type MissingKeysError struct {
	Entities []EntityId
	Attempts int
}

func (err MissingKeysError) Error() string {
	ids := make([]string, len(err.Entities))
	for i, id := range err.Entities {
		ids[i] = string(id)
	}
	return fmt.Sprintf("Missing routing keys after %v attempts for %v", err.Attempts, strings.Join(ids, ", "))
}

// Hop fee would consume the whole inbound amount
var ErrFeeInfeasible = errors.New("Fee consumes the entire inbound amount")

type HopCapacityError struct {
	From      EntityId
	To        EntityId
	Amount    Amount
	Spendable Amount
}

func (err HopCapacityError) Error() string {
	if err.Spendable.IsZero() {
		return fmt.Sprintf("No known capacity from %v to %v", err.From, err.To)
	}
	return fmt.Sprintf("Won't be able to send %v from %v to %v when capacity is only %v", err.Amount, err.From, err.To, err.Spendable)
}
