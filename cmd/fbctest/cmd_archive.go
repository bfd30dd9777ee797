package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fbctest/archive"
	"github.com/katalvlaran/fbctest/frog"
)

func (a *app) archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve report directories",
	}
	cmd.AddCommand(a.archivePutCmd(), a.archiveListCmd(), a.archiveFetchCmd())

	return cmd
}

func (a *app) openArchive(cmd *cobra.Command) (*archive.Archive, error) {
	return archive.Open(cmd.Context(), a.cfg.Archive, archive.WithLogger(a.logger))
}

func (a *app) archivePutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put DIR",
		Short: "Archive a report directory and print its run id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arc, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer arc.Close()

			run, err := arc.PutDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}
}

func (a *app) archiveListCmd() *cobra.Command {
	var md5 string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			arc, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer arc.Close()

			runs, err := arc.List(cmd.Context(), md5)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODEL\tMD5\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.ModelFilename, r.ModelMD5, r.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&md5, "md5", "", "Only runs of the model file with this md5")

	return cmd
}

func (a *app) archiveFetchCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "fetch ID",
		Short: "Restore an archived run as a report directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arc, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer arc.Close()

			data, md, err := arc.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = args[0]
			}
			if err := frog.WriteDir(outDir, data, md); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s to %s\n", args[0], outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Report directory (default: the run id)")

	return cmd
}
