package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")
	assert.Equal(t, "user-1", UserIDFromContext(ctx))
}

func TestUserIDMissing(t *testing.T) {
	assert.Equal(t, "", UserIDFromContext(context.Background()))
}

func TestWithQueryTimeoutNilParent(t *testing.T) {
	ctx, cancel := WithQueryTimeout(nil)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(QueryTimeout), deadline, time.Second)
}
