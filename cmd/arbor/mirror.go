package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror [definition files...]",
	Short: "Mirror a running engine's active stack",
	Long: `Subscribes to the debug snapshot stream of a running engine and
renders the reconstructed active stack, without executing any decision
logic locally. The local definitions must match the remote engine's.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMirror(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	mirrorCmd.Flags().String("redis", "", "Redis address carrying snapshots (host:port)")
	mirrorCmd.Flags().String("channel", "", "Pub/sub channel name")
	mirrorCmd.Flags().String("listen", "", "Serve the observation HTTP API on this address")
	mirrorCmd.Flags().Duration("interval", 500*time.Millisecond, "Terminal refresh interval")
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths, err := definitionPaths(cfg, args)
	if err != nil {
		return err
	}

	opts := cli.MirrorOptions{
		Definitions: paths,
		Root:        cfg.Root,
		RedisAddr:   cfg.Redis.Addr,
		Channel:     cfg.Redis.Channel,
		Listen:      cfg.Listen,
	}
	if v, _ := cmd.Flags().GetString("redis"); v != "" {
		opts.RedisAddr = v
	}
	if v, _ := cmd.Flags().GetString("channel"); v != "" {
		opts.Channel = v
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		opts.Listen = v
	}
	opts.Interval, _ = cmd.Flags().GetDuration("interval")
	opts.Debug, _ = cmd.Flags().GetBool("debug")

	if opts.RedisAddr == "" {
		return fmt.Errorf("no redis address configured (--redis or %s)", cli.DefaultConfigFile)
	}

	ctx, cancel := cli.NewSignalContext(context.Background())
	defer cancel()

	return cli.RunMirror(ctx, opts)
}
