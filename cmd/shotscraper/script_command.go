package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	friendlyerrors "shotscraper/internal/errors"
	"shotscraper/internal/logging"
	"shotscraper/internal/resolver"
	"shotscraper/internal/scripts"
	"shotscraper/internal/state"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	var urlOnly bool
	var record bool

	cmd := &cobra.Command{
		Use:   "script GITHUB_PATH",
		Short: "Print a script loaded from GitHub (user/file or user/repo/path/to/file)",
		Long: `Load JavaScript from raw.githubusercontent.com.

  user/file.js              -> user/shot-scraper-scripts/main/file.js
  user/repo/path/to/file.js -> user/repo/main/path/to/file.js

The .js suffix and a leading gh: are optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("record") {
				record = cfg.General.Record
			}
			if urlOnly {
				ref, err := resolver.ParseGitHubPath(strings.TrimPrefix(args[0], resolver.Prefix))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ref.URL(cfg.Sources.GitHub.RawBaseURL))
				return err
			}

			log := ctx.logger()
			m := ctx.metrics()
			defer func() {
				if err := m.Write(); err != nil {
					log.Warnf("metrics: %v", err)
				}
			}()

			start := time.Now()
			s, err := scripts.NewLoader(cfg, log).Fetch(cmd.Context(), args[0])
			if err != nil {
				if friendlyerrors.KindOf(err) == friendlyerrors.KindRemoteFetchFailed {
					m.IncFetchFailures()
				}
				return err
			}
			m.ObserveScript(s.Size, time.Since(start).Seconds())
			log.Infof("loaded %s (%s, sha256 %s)", logging.SanitizeURL(s.URL), humanize.Bytes(uint64(s.Size)), s.SHA256[:12])

			if record {
				err := ctx.withState(func(db *state.DB) error {
					return db.RecordScript(state.ScriptRow{Path: s.Path, URL: s.URL, SHA256: s.SHA256, Size: s.Size})
				})
				if err != nil {
					log.Warnf("history: %v", err)
				}
			}
			_, err = io.WriteString(cmd.OutOrStdout(), s.Text)
			return err
		},
	}

	cmd.Flags().BoolVar(&urlOnly, "url-only", false, "Print the raw URL without fetching it")
	cmd.Flags().BoolVar(&record, "record", false, "Record the fetch in history")

	return cmd
}
