package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(100*time.Millisecond, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other keys have their own window.
	assert.True(t, rl.Allow("5.6.7.8"))

	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"))
}
