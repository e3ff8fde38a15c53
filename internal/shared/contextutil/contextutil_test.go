package contextutil_test

import (
	"context"
	"testing"

	"go-hrops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithSubject(ctx, "user_2abc")

	meta := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "rid-1", meta.RequestID)
	assert.Equal(t, "user-1", meta.UserID)
	assert.Equal(t, "user_2abc", meta.Subject)
}

func TestGetLogger_Fallbacks(t *testing.T) {
	fallback := zap.NewExample()
	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample().Named("req")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
}
