package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"shotscraper/internal/logging"
	"shotscraper/internal/state"
)

type historyView struct {
	Shots   []state.ShotRow   `json:"shots"`
	Scripts []state.ScriptRow `json:"scripts"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded filenames and script fetches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withState(func(db *state.DB) error {
				shots, err := db.ListShots(0)
				if err != nil {
					return err
				}
				scriptRows, err := db.ListScripts(0)
				if err != nil {
					return err
				}
				view := filterHistory(historyView{Shots: shots, Scripts: scriptRows}, search, limit)

				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(view)
				}
				now := time.Now()
				if len(view.Shots) > 0 {
					rows := make([][]string, 0, len(view.Shots))
					for _, r := range view.Shots {
						rows = append(rows, []string{
							r.Filename,
							logging.SanitizeURL(r.URL),
							r.Dir,
							humanize.RelTime(time.Unix(r.CreatedAt, 0), now, "ago", "from now"),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Filename", "URL", "Dir", "Created"}, rows, nil))
				}
				if len(view.Scripts) > 0 {
					rows := make([][]string, 0, len(view.Scripts))
					for _, r := range view.Scripts {
						rows = append(rows, []string{
							r.Path,
							humanize.Bytes(uint64(r.Size)),
							shortDigest(r.SHA256),
							humanize.RelTime(time.Unix(r.FetchedAt, 0), now, "ago", "from now"),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Script", "Size", "SHA256", "Fetched"}, rows,
						[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
				}
				if len(view.Shots) == 0 && len(view.Scripts) == 0 {
					fmt.Fprintln(out, "No history recorded.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Fuzzy filter on URL, filename or script path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows per section (0 for all)")

	return cmd
}

func filterHistory(v historyView, search string, limit int) historyView {
	var out historyView
	for _, r := range v.Shots {
		if search == "" || fuzzy.MatchFold(search, r.URL) || fuzzy.MatchFold(search, r.Filename) {
			out.Shots = append(out.Shots, r)
		}
	}
	for _, r := range v.Scripts {
		if search == "" || fuzzy.MatchFold(search, r.Path) || fuzzy.MatchFold(search, r.URL) {
			out.Scripts = append(out.Scripts, r)
		}
	}
	if limit > 0 {
		if len(out.Shots) > limit {
			out.Shots = out.Shots[:limit]
		}
		if len(out.Scripts) > limit {
			out.Scripts = out.Scripts[:limit]
		}
	}
	return out
}

func shortDigest(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
