package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"shotscraper/internal/config"
	"shotscraper/internal/resolver"
	"shotscraper/internal/state"
	"shotscraper/internal/system"
)

// check is a single diagnostic.
type check struct {
	name string
	run  func(ctx context.Context, cfg *config.Config) checkResult
}

type checkResult struct {
	passed     bool
	message    string
	suggestion string
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, history storage and GitHub reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checks := []check{
				{name: "config", run: checkConfig},
				{name: "data_root", run: checkDataRoot},
				{name: "history", run: checkHistory},
			}
			if !offline {
				checks = append(checks, check{name: "github", run: checkGitHub})
			}
			failed := runChecks(cmd.Context(), cmd.OutOrStdout(), cfg, checks)
			if proxies := system.DetectProxySettings(); len(proxies) > 0 {
				for k, v := range proxies {
					fmt.Fprintf(cmd.OutOrStdout(), "  proxy %s=%s\n", k, v)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the network check")

	return cmd
}

func runChecks(ctx context.Context, w io.Writer, cfg *config.Config, checks []check) int {
	failed := 0
	for _, c := range checks {
		res := c.run(ctx, cfg)
		mark := "ok  "
		if !res.passed {
			mark = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "[%s] %-10s %s\n", mark, c.name, res.message)
		if !res.passed && res.suggestion != "" {
			fmt.Fprintf(w, "       %s\n", res.suggestion)
		}
	}
	return failed
}

func checkConfig(_ context.Context, cfg *config.Config) checkResult {
	if errs := cfg.ValidateDetailed(); len(errs) > 0 {
		return checkResult{message: errs[0].Error(), suggestion: errs[0].Suggestion}
	}
	return checkResult{passed: true, message: "valid"}
}

func checkDataRoot(_ context.Context, cfg *config.Config) checkResult {
	root := cfg.General.DataRoot
	if root == "" {
		return checkResult{message: "general.data_root not set", suggestion: "Set general.data_root to enable history"}
	}
	if err := config.EnsureDir(root, 0o755); err != nil {
		return checkResult{message: err.Error(), suggestion: "Check permissions on " + root}
	}
	f, err := os.CreateTemp(root, ".doctor-*")
	if err != nil {
		return checkResult{message: "not writable: " + err.Error(), suggestion: "Check permissions on " + root}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return checkResult{passed: true, message: root}
}

func checkHistory(_ context.Context, cfg *config.Config) checkResult {
	if cfg.General.DataRoot == "" {
		return checkResult{message: "skipped: no data_root"}
	}
	db, err := state.Open(cfg)
	if err != nil {
		return checkResult{message: err.Error(), suggestion: "Move " + filepath.Join(cfg.General.DataRoot, "state.db") + " aside and retry"}
	}
	defer func() { _ = db.Close() }()
	shots, err := db.ListShots(0)
	if err != nil {
		return checkResult{message: err.Error()}
	}
	return checkResult{passed: true, message: fmt.Sprintf("%d recorded filename(s)", len(shots))}
}

func checkGitHub(ctx context.Context, cfg *config.Config) checkResult {
	base := cfg.Sources.GitHub.RawBaseURL
	if base == "" {
		base = resolver.RawBaseURL
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := system.CheckURLReachable(ctx, base); err != nil {
		return checkResult{message: err.Error()}
	}
	return checkResult{passed: true, message: base + " reachable"}
}
