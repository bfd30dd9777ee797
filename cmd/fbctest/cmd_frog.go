package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/fbctest/compare"
	"github.com/katalvlaran/fbctest/frog"
	"github.com/katalvlaran/fbctest/model"
)

func (a *app) frogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frog",
		Short: "Build and compare reproducibility reports",
	}
	cmd.AddCommand(a.frogReportCmd(), a.frogCompareCmd())

	return cmd
}

func (a *app) frogReportCmd() *cobra.Command {
	var (
		outDir   string
		fraction float64
	)
	cmd := &cobra.Command{
		Use:   "report MODEL",
		Short: "Write the report directory of MODEL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			opt, eng, err := a.engine()
			if err != nil {
				return err
			}

			a.logger.Info("building report",
				zap.String("model", m.ID()),
				zap.Int("reactions", len(m.Reactions())),
				zap.Int("genes", len(m.Genes())),
				zap.Int("workers", eng.Workers()))
			data, err := frog.BuildReport(cmd.Context(), m, eng,
				frog.WithLogger(a.logger), frog.WithFraction(fraction))
			if err != nil {
				return err
			}
			md, err := frog.NewMetadata(args[0], opt.SolverName())
			if err != nil {
				return err
			}
			if err := frog.WriteDir(outDir, data, md); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d objective(s) to %s\n", len(data), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "frog", "Report directory")
	cmd.Flags().Float64Var(&fraction, "fraction", frog.DefaultFraction, "Share of the optimum kept during flux variability")

	return cmd
}

func (a *app) frogCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare DIR_A DIR_B",
		Short: "Compare two report directories within the configured tolerance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataA, mdA, err := frog.ReadDir(args[0])
			if err != nil {
				return err
			}
			dataB, mdB, err := frog.ReadDir(args[1])
			if err != nil {
				return err
			}

			tol := compare.Tolerance{Absolute: a.cfg.Tolerance.Absolute, Relative: a.cfg.Tolerance.Relative}
			res := compare.Combine("frog",
				compare.Metadata(mdA, mdB),
				compare.Reports(dataA, dataB, tol),
			)
			if err := res.Summary(cmd.OutOrStdout()); err != nil {
				return err
			}
			if !res.Passed() {
				return errFailed
			}
			return nil
		},
	}
}
