package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	})

	assert.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
}

func TestWithRateLimit_Disabled(t *testing.T) {
	c := &sdkClient{}
	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)

	WithRateLimit(-1)(c)
	assert.Nil(t, c.limiter)
}

func TestWithRateLimit_Enabled(t *testing.T) {
	c := &sdkClient{}
	WithRateLimit(2)(c)
	assert.NotNil(t, c.limiter)
	assert.InDelta(t, 2.0, float64(c.limiter.Limit()), 0.001)
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient("test-key", WithRateLimit(1))
	sc, ok := c.(*sdkClient)
	assert.True(t, ok)
	assert.NotNil(t, sc.limiter)
}
