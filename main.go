// main.go
//
// Entry point for the crackle word-game client.
// Responsibilities:
//   - Load .env (development) and the layered configuration.
//   - Configure zerolog: level from config, JSON or console output for the
//     server, a log file (or nothing) for the full-screen terminal UI.
//   - Dispatch the cobra subcommands defined in commands.go.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/crackle/internal/config"
)

// annotTUI marks commands that take over the terminal; their logs must not
// reach stderr.
const annotTUI = "tui"

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg     *config.Config
	logFile *os.File
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "crackle",
		Short: "Five-letter word game and solving assistant",
		Long: `crackle plays a five-letter word game against a remote word service,
or helps you crack one you are playing elsewhere.

Run "crackle play" for a game, "crackle crack" for the assistant, or
"crackle serve" to expose both as a JSON API for a browser front end.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return a.setupLogging(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logFile != nil {
				_ = a.logFile.Close()
			}
		},
	}

	root.AddCommand(
		newPlayCmd(a),
		newCrackCmd(a),
		newServeCmd(a),
		newScoreCmd(),
		newCacheCmd(a),
		newTokenCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setupLogging applies the configured level and picks the sink for cmd.
func (a *app) setupLogging(cmd *cobra.Command) error {
	if lvl, err := zerolog.ParseLevel(a.cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var out io.Writer = os.Stderr
	if _, tui := cmd.Annotations[annotTUI]; tui {
		out = io.Discard
		if a.cfg.Logging.File != "" {
			f, err := os.OpenFile(a.cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			a.logFile = f
			out = f
		}
	} else if a.cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
