// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ik5/audmix/engine"
)

var playCmd = &cobra.Command{
	Use:   "play SCENE",
	Short: "Play a scene on the sound card",
	Long: `Play runs the engine in real time and issues the scene's commands as their
time comes. It returns once the scene is over and every channel has stopped,
or on SIGINT/SIGTERM.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Duration("status", time.Second, "status refresh interval, 0 disables it")
	playCmd.Flags().Bool("hold", false, "keep running after the scene until interrupted")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("status")
	hold, _ := cmd.Flags().GetBool("hold")

	cfg, err := setup()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	sc, err := loadScene(fs, args[0])
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(store, newPeripheral(cfg, fs), cfg.EngineOptions()...)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	ctx, finish := context.WithCancel(ctx)
	defer finish()

	p := pool.New().WithErrors().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		defer finish()

		if err := sc.Run(ctx, eng); err != nil && ctx.Err() == nil {
			slog.Warn("Scene step failed", slog.Any("error", err))
		}
		if hold {
			<-ctx.Done()
			return nil
		}
		return waitIdle(ctx, eng)
	})

	p.Go(func(ctx context.Context) error {
		select {
		case <-eng.Done():
			finish()
		case <-ctx.Done():
		}
		return nil
	})

	if interval > 0 {
		p.Go(func(ctx context.Context) error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Fprintln(cmd.ErrOrStderr(), renderStatus(eng.Snapshot(), eng.Stats()))
				}
			}
		})
	}

	err = p.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), eng.Config().StopTimeout)
	defer cancel()
	if serr := eng.Stop(stopCtx); serr != nil {
		return fmt.Errorf("failed to stop engine gracefully: %w", serr)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(eng.Stats()))

	return err
}

// waitIdle returns once no channel is active or braked.
func waitIdle(ctx context.Context, eng *engine.Engine) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if idle(eng.Snapshot()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func idle(chs []engine.ChannelStatus) bool {
	for _, ch := range chs {
		// a braked channel can still be resumed
		if ch.Mode.Active() || ch.Mode == engine.Braked {
			return false
		}
	}
	return true
}
