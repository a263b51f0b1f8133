package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// NewSignalContext returns a context cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CreateLogger configures the application logger. In debug mode it
// writes to Stderr; otherwise it is silent.
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// CompileDefinitions parses every definition file and compiles the
// tree. A non-empty root overrides the definitions' root directive.
func CompileDefinitions(paths []string, root string) (*domain.Tree, error) {
	parser := compiler.NewParser()
	if root != "" {
		parser.SetRoot(root)
	}
	for _, path := range paths {
		if err := parser.ParseFile(path); err != nil {
			return nil, err
		}
	}
	return parser.Compile()
}
