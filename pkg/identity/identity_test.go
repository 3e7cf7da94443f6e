package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymous(t *testing.T) {
	assert.True(t, Anonymous.IsAnonymous())
	assert.False(t, Principal("alice").IsAnonymous())
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "alice", Principal("alice").String())
}

func TestContextProvider(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal("alice"))
	var p ContextProvider
	assert.Equal(t, Principal("alice"), p.Caller(ctx))
	assert.Equal(t, Anonymous, p.Caller(context.Background()))
}
