package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robuild/internal/adapters/telemetry"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
)

func TestNoOp_Record(t *testing.T) {
	tel := telemetry.NewNoOp()
	ctx := context.Background()

	gotCtx, vertex := tel.Record(ctx, "esm")
	require.NotNil(t, vertex)

	_, ok := ports.VertexFromContext(gotCtx)
	assert.False(t, ok, "noop vertex must not capture child process output")

	n, err := vertex.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	_, err = vertex.Stderr().Write([]byte("ignored"))
	require.NoError(t, err)

	vertex.Log(domain.LogLevelWarn, "ignored")
	vertex.Complete(errors.New("ignored"))
	assert.NoError(t, tel.Close())
}
