package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRange(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	assert.False(t, DateRange{}.IsSet())
	assert.False(t, DateRange{StartDate: start}.IsSet())
	assert.True(t, DateRange{StartDate: start, EndDate: end}.IsSet())

	assert.True(t, DateRange{StartDate: start, EndDate: end}.Valid())
	assert.False(t, DateRange{StartDate: start, EndDate: start}.Valid())
	assert.False(t, DateRange{StartDate: end, EndDate: start}.Valid())
	assert.False(t, DateRange{}.Valid())
}
