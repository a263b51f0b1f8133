package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	httpadapter "github.com/aretw0/arbor/internal/adapters/http"
	redisadapter "github.com/aretw0/arbor/internal/adapters/redis"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/mirror"
	"github.com/muesli/termenv"
)

// MirrorOptions configures the mirror command.
type MirrorOptions struct {
	Definitions []string
	Root        string
	RedisAddr   string
	Channel     string
	Listen      string
	Interval    time.Duration
	Debug       bool
}

// RunMirror subscribes to a remote engine's snapshot stream and renders
// the reconstructed stack to the terminal, optionally also serving it
// over HTTP.
func RunMirror(ctx context.Context, opts MirrorOptions) error {
	logger := CreateLogger(opts.Debug)

	tree, err := CompileDefinitions(opts.Definitions, opts.Root)
	if err != nil {
		return err
	}

	var subOpts []redisadapter.Option
	if opts.Channel != "" {
		subOpts = append(subOpts, redisadapter.WithChannel(opts.Channel))
	}
	sub, err := redisadapter.NewSubscriber(ctx, opts.RedisAddr, subOpts...)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", opts.RedisAddr, err)
	}

	replica := mirror.New(tree, sub, mirror.WithLogger(logger))
	defer replica.Close()

	if opts.Listen != "" {
		server := &http.Server{Addr: opts.Listen, Handler: httpadapter.NewHandler(replica)}
		go func() {
			logger.Info("observation server listening", "addr", opts.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("observation server stopped", "err", err)
			}
		}()
		defer server.Close()
	}

	renderer := tui.NewRenderer()
	terminal := termenv.NewOutput(os.Stdout)
	interval := opts.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastOutput string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-replica.Done():
			return fmt.Errorf("snapshot stream closed")
		case <-ticker.C:
			output := renderStack(renderer, replica.Stack())
			if output != lastOutput {
				redraw(terminal, output)
				lastOutput = output
			}
		}
	}
}

// redraw clears the terminal and paints the rendered stack.
func redraw(out *termenv.Output, content string) {
	out.ClearScreen()
	out.WriteString(content)
}

func renderStack(renderer *tui.Renderer, stack []domain.StackEntry) string {
	if stack == nil {
		return renderer.Placeholder()
	}
	return renderer.RenderStack(stack)
}
