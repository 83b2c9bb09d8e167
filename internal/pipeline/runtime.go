// Package pipeline wires intake loading, report generation and rendering
// into the runs behind each command-line tool.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"whitepaper-gen/internal/idhash"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/observability"
	"whitepaper-gen/internal/reporting"
)

// ErrWrite marks a failure to write an output file. It is the one failure
// that makes a run unsuccessful.
var ErrWrite = errors.New("write output")

// Degradation reasons.
const (
	ReasonMissing     = "missing"
	ReasonMalformed   = "malformed"
	ReasonUnreachable = "unreachable"
	ReasonInvalid     = "invalid"
)

// Runtime carries what every pipeline needs: the filesystem, a logger and
// the run counters.
type Runtime struct {
	FS      afero.Fs
	Log     *zap.Logger
	Metrics *observability.Metrics

	written *writeLog
}

// writeLog remembers the content of every file written through a runtime.
type writeLog struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewRuntime returns a runtime. A nil logger or metrics set gets a no-op
// logger and a private counter set.
func NewRuntime(fs afero.Fs, log *zap.Logger, m *observability.Metrics) Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = observability.NewMetrics("")
	}
	return Runtime{FS: fs, Log: log, Metrics: m, written: &writeLog{files: make(map[string][]byte)}}
}

// Written returns the files written so far, keyed by path.
func (rt Runtime) Written() map[string][]byte {
	out := make(map[string][]byte)
	if rt.written == nil {
		return out
	}
	rt.written.mu.Lock()
	defer rt.written.mu.Unlock()
	for path, content := range rt.written.files {
		out[path] = content
	}
	return out
}

// degraded logs and counts an input that was replaced by its default.
func (rt Runtime) degraded(input, path string, err error) {
	reason := reasonOf(err)
	rt.Log.Warn("input degraded to defaults",
		zap.String("input", input),
		zap.String("path", path),
		zap.String("reason", reason),
		zap.Error(err))
	rt.Metrics.RecordDegraded(input, reason)
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, intake.ErrMissing):
		return ReasonMissing
	case errors.Is(err, errUnreachable):
		return ReasonUnreachable
	case errors.Is(err, intake.ErrMalformed):
		return ReasonMalformed
	default:
		return ReasonInvalid
	}
}

// writeArtifact replaces dir/a.Name with the artifact contents.
func (rt Runtime) writeArtifact(dir string, a reporting.Artifact) error {
	return rt.writeFile(filepath.Join(dir, a.Name), a)
}

// writeFile replaces path with the artifact contents, creating parent
// directories as needed.
func (rt Runtime) writeFile(path string, a reporting.Artifact) error {
	if err := rt.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWrite, filepath.Dir(path), err)
	}
	if err := afero.WriteFile(rt.FS, path, a.Content, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	if rt.written != nil {
		rt.written.mu.Lock()
		rt.written.files[path] = a.Content
		rt.written.mu.Unlock()
	}
	rt.Metrics.RecordArtifact(a.Kind, a.Placeholder, a.Name)
	rt.Log.Debug("wrote artifact",
		zap.String("path", path),
		zap.String("kind", a.Kind),
		zap.Int("bytes", len(a.Content)),
		zap.String("sha256", idhash.Digest(a.Content)),
		zap.Bool("placeholder", a.Placeholder))
	return nil
}

// ensureDir creates dir for tools that prepare their output directory up
// front.
func (rt Runtime) ensureDir(dir string) error {
	if err := rt.FS.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWrite, dir, err)
	}
	return nil
}
