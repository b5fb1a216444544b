package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBorrowRequestIsSwap(t *testing.T) {
	plain := &BorrowRequest{Status: RequestStatusPending}
	assert.False(t, plain.IsSwap())

	swap := &BorrowRequest{
		Status: RequestStatusPending,
		Swap:   &SwapOffer{ItemID: "i2", ItemTitle: "Ladder", Duration: 7},
	}
	assert.True(t, swap.IsSwap())
}

func TestBorrowRequestIsTerminal(t *testing.T) {
	assert.False(t, (&BorrowRequest{Status: RequestStatusPending}).IsTerminal())
	assert.True(t, (&BorrowRequest{Status: RequestStatusApproved}).IsTerminal())
	assert.True(t, (&BorrowRequest{Status: RequestStatusRejected}).IsTerminal())
}
