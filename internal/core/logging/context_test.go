package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCycleID(t *testing.T) {
	ctx := WithCycleID(context.Background(), "k3v9x2ab")
	assert.Equal(t, "k3v9x2ab", GetCycleID(ctx))
}

func TestWithSource(t *testing.T) {
	ctx := WithSource(context.Background(), "schedules/schedule.md")
	assert.Equal(t, "schedules/schedule.md", GetSource(ctx))
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCycleID(ctx))
	assert.Empty(t, GetSource(ctx))
}

func TestBothValues(t *testing.T) {
	ctx := WithCycleID(context.Background(), "c1")
	ctx = WithSource(ctx, "a.md")

	assert.Equal(t, "c1", GetCycleID(ctx))
	assert.Equal(t, "a.md", GetSource(ctx))
}
