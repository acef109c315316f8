package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unavailable", fmt.Errorf("get k: %w", ErrStoreUnavailable), "store_unavailable"},
		{"missing counter", ErrCounterMissing, "store_unavailable"},
		{"serialization", fmt.Errorf("get k: %w", ErrSerialization), "serialization"},
		{"foreign", errors.New("boom"), "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorKind(tc.err))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "unknown", Decision(0).String())
}
