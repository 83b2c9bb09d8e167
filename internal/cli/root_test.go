package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoot_RunsWithEnv(t *testing.T) {
	var got *Env
	cmd, env := NewRoot("wp-test", "test tool", func(ctx context.Context, e *Env) error {
		got = e
		return nil
	})
	env.FS = afero.NewMemMapFs()
	cmd.SetArgs([]string{"--verbose"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.True(t, got.Verbose)
	assert.NotNil(t, got.Logger)
	assert.NotNil(t, got.Metrics)
}

func TestNewRoot_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	cmd, _ := NewRoot("wp-test", "test tool", func(context.Context, *Env) error { return boom })
	cmd.SetArgs(nil)
	cmd.SetErr(&bytes.Buffer{})

	assert.ErrorIs(t, cmd.Execute(), boom)
}

func TestNewRoot_RejectsArgs(t *testing.T) {
	cmd, _ := NewRoot("wp-test", "test tool", func(context.Context, *Env) error { return nil })
	cmd.SetArgs([]string{"extra"})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestNewRoot_WritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.prom")
	cmd, _ := NewRoot("wp-test", "test tool", func(context.Context, *Env) error { return nil })
	cmd.SetArgs([]string{"--metrics-textfile", path})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `whitepaper_gen_pipeline_runs_total{status="success",tool="wp-test"} 1`)
}
