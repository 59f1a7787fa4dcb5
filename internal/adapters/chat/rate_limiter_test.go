package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageRateLimiter_BlocksOverLimit(t *testing.T) {
	req := require.New(t)
	rl := NewMessageRateLimiter(3, time.Minute)

	req.True(rl.Allow("c1"))
	req.True(rl.Allow("c1"))
	req.True(rl.Allow("c1"))
	req.False(rl.Allow("c1"))

	// Windows are per connection.
	req.True(rl.Allow("c2"))
}

func TestMessageRateLimiter_WindowSlides(t *testing.T) {
	req := require.New(t)
	rl := NewMessageRateLimiter(2, 10*time.Millisecond)

	req.True(rl.Allow("c1"))
	req.True(rl.Allow("c1"))
	req.False(rl.Allow("c1"))

	time.Sleep(15 * time.Millisecond)
	req.True(rl.Allow("c1"))
}

func TestMessageRateLimiter_ZeroLimitDisables(t *testing.T) {
	req := require.New(t)
	rl := NewMessageRateLimiter(0, time.Minute)

	for i := 0; i < 100; i++ {
		req.True(rl.Allow("c1"))
	}
}

func TestMessageRateLimiter_Forget(t *testing.T) {
	req := require.New(t)
	rl := NewMessageRateLimiter(1, time.Minute)

	req.True(rl.Allow("c1"))
	req.False(rl.Allow("c1"))

	rl.Forget("c1")
	req.True(rl.Allow("c1"))
}
