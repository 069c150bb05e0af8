package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	friendlyerrors "shotscraper/internal/errors"
	"shotscraper/internal/logging"
	"shotscraper/internal/state"
	"shotscraper/internal/util"
)

func newFilenameCommand(ctx *commandContext) *cobra.Command {
	var ext string
	var timestamp string
	var dir string
	var record bool
	var noCheck bool

	cmd := &cobra.Command{
		Use:   "filename URL",
		Short: "Print a collision-free screenshot filename for URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ext") {
				ext = cfg.Output.Ext
			}
			if !cmd.Flags().Changed("timestamp") {
				timestamp = cfg.Output.Timestamp
			}
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Output.Dir
			}
			if !cmd.Flags().Changed("record") {
				record = cfg.General.Record
			}
			mode, err := util.ParseTimestampMode(timestamp)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = "."
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return friendlyerrors.PathError(dir, err)
			}

			log := ctx.logger().With("url", logging.SanitizeURL(args[0]))
			m := ctx.metrics()

			allocate := func(extra util.FileExists) (string, error) {
				skipped := 0
				probe := util.FileExistsNever
				if !noCheck {
					probe = util.AnyExists(util.DirExists(absDir), extra)
				}
				counting := func(name string) bool {
					taken := probe(name)
					if taken {
						skipped++
						log.Debugf("taken: %s", name)
					}
					return taken
				}
				name, err := util.FilenameForURL(args[0], ext, counting, mode)
				if err != nil {
					return "", err
				}
				m.ObserveFilename(skipped)
				return name, nil
			}

			var name string
			if record {
				err = ctx.withLock(cmd.Context(), func() error {
					return ctx.withState(func(db *state.DB) error {
						n, err := allocate(db.ExistsProbe(absDir))
						if err != nil {
							return err
						}
						if _, err := db.RecordShot(state.ShotRow{URL: args[0], Filename: n, Dir: absDir}); err != nil {
							return friendlyerrors.DatabaseError(err)
						}
						name = n
						return nil
					})
				})
			} else {
				name, err = allocate(nil)
			}
			if err != nil {
				return err
			}
			if err := m.Write(); err != nil {
				log.Warnf("metrics: %v", err)
			}
			log.Debugf("allocated %s", name)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
			return err
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "png", "File extension")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Append a timestamp: epoch|utc|local")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory checked for existing files")
	cmd.Flags().BoolVar(&record, "record", false, "Record the filename in history so later runs skip it")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "Do not probe for existing files")

	return cmd
}
