// commands.go
//
// cobra subcommands:
//   - play     full-screen practice game (optionally a fixed secret or today's word)
//   - crack    full-screen solving assistant
//   - serve    headless JSON engine server
//   - score    score one guess against a secret, offline
//   - cache    clear the cached word list
//   - token    mint an access token for the headless server
//   - config   print the effective configuration

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/crackle/internal/api"
	"github.com/robalobadob/crackle/internal/daily"
	"github.com/robalobadob/crackle/internal/game"
	"github.com/robalobadob/crackle/internal/httpserver"
	"github.com/robalobadob/crackle/internal/reset"
	"github.com/robalobadob/crackle/internal/session"
	"github.com/robalobadob/crackle/internal/store"
	"github.com/robalobadob/crackle/internal/tui"
	"github.com/robalobadob/crackle/internal/words"
)

// client builds the word-service client from config.
func (a *app) client() *api.Client {
	return api.New(a.cfg.API.BaseURL, api.WithTimeout(a.cfg.HTTPTimeout()))
}

// loader builds the vocabulary loader over cache, word file and service.
func (a *app) loader(cache store.Cache, remote words.Fetcher) *words.Loader {
	return words.NewLoader(cache, a.cfg.Cache.WordsFile, remote)
}

func (a *app) resetConfig() reset.Config {
	return reset.Config{
		ToastDuration: a.cfg.ToastDuration(),
		Cooldown:      a.cfg.PenaltyCooldown(),
		Threshold:     a.cfg.Game.PenaltyAfter,
	}
}

func newPlayCmd(a *app) *cobra.Command {
	var (
		secret string
		today  bool
	)
	cmd := &cobra.Command{
		Use:         "play",
		Short:       "Play a practice game in the terminal",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret != "" {
				if _, err := game.ParseWord(secret); err != nil {
					return fmt.Errorf("--secret %q: %w", secret, err)
				}
			}
			ctx := cmd.Context()
			cache, closeCache := openCache(a.cfg)
			defer closeCache()

			client := a.client()
			vocab, _ := a.loader(cache, client).Load(ctx)
			if today && secret == "" {
				w, err := daily.Pick(vocab.Words(), time.Now(), a.cfg.Game.DailySalt)
				if err != nil {
					return fmt.Errorf("daily word: %w", err)
				}
				log.Info().Str("date", daily.DateKey(time.Now())).Msg("daily game")
				secret = w
			}
			m := tui.NewPractice(ctx, tui.PracticeConfig{
				Backend:     client,
				Vocab:       vocab,
				Secret:      secret,
				Reset:       a.resetConfig(),
				RevealDelay: a.cfg.RevealDelay(),
			})
			if err := tui.Run(ctx, m, nil, nil); err != nil {
				return err
			}
			if s := m.Controller().Session(); s.Won {
				fmt.Fprintf(cmd.OutOrStdout(), "Solved %s in %d.\n", s.Secret, len(s.History))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "play locally against this word instead of the service")
	cmd.Flags().BoolVar(&today, "daily", false, "play today's word locally (same for everyone sharing the word list)")
	cmd.MarkFlagsMutuallyExclusive("secret", "daily")
	return cmd
}

func newCrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "crack",
		Short:       "Narrow down the answer of a game you are playing elsewhere",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, closeCache := openCache(a.cfg)
			defer closeCache()

			client := a.client()
			m := tui.NewCrack(ctx, client, a.loader(cache, client))
			if err := tui.Run(ctx, m, nil, nil); err != nil {
				return err
			}
			if as := m.Assistant(); as.Status() == session.Solved {
				fmt.Fprintln(cmd.OutOrStdout(), as.Solution())
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve practice and assistant plays as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cache, closeCache := openCache(a.cfg)
			defer closeCache()

			client := a.client()
			loader := a.loader(cache, client)
			vocab, _ := loader.Load(ctx)

			srv := httpserver.New(httpserver.Deps{
				Backend:      client,
				Filter:       client,
				Vocab:        vocab,
				Candidates:   loader,
				Reset:        a.resetConfig(),
				RevealDelay:  a.cfg.RevealDelay(),
				Secret:       a.cfg.Server.Secret,
				ClientOrigin: a.cfg.Server.ClientOrigin,
			})
			log.Info().
				Str("port", a.cfg.Server.Port).
				Str("api", a.cfg.API.BaseURL).
				Bool("auth", a.cfg.Server.Secret != "").
				Msg("starting crackle server")
			return srv.Serve(ctx, ":"+a.cfg.Server.Port)
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score GUESS SECRET",
		Short: "Print the feedback GUESS earns against SECRET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := game.ScoreStrings(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", strings.ToUpper(strings.TrimSpace(args[0])), out.Emoji())
			return nil
		},
	}
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cached word list",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop the cached word list so the next start refetches it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, closeCache := openCache(a.cfg)
			defer closeCache()
			if err := cache.Invalidate(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "word cache cleared")
			return nil
		},
	})
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the headless server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, exp, err := httpserver.SignToken(a.cfg.Server.Secret, subject, ttl)
			if err != nil {
				return fmt.Errorf("sign token (is CRACKLE_SERVER_SECRET set?): %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			log.Debug().Str("subject", subject).Time("expires", exp).Msg("token issued")
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (owner of the plays it creates)")
	cmd.Flags().DurationVar(&ttl, "ttl", 14*24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
