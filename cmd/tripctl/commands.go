package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/services"
	"github.com/zacharydestefano89/travel-route-planner/internal/tripfile"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tripctl",
		Short:        "Rank optional-stop combinations for a trip",
		SilenceUsage: true,
	}
	root.AddCommand(newOptimizeCmd(), newValidateCmd())
	return root
}

func newOptimizeCmd() *cobra.Command {
	var (
		file      string
		threshold int
		workers   int
		asJSON    bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Optimize a trip file and print the ranked routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := tripfile.Load(file)
			if err != nil {
				return err
			}
			m, err := tf.Matrix()
			if err != nil {
				return err
			}

			opts := tf.Options(services.DefaultOptions())
			if cmd.Flags().Changed("threshold") {
				opts.Threshold = threshold
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			opt, err := services.Optimize(ctx, tf.Input(), m, opts)
			if opt == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if encErr := writeJSON(out, opt); encErr != nil {
					return encErr
				}
			} else {
				writeTable(out, opt)
			}
			// Partial results were printed; still report the failure.
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "trip YAML file")
	cmd.Flags().IntVar(&threshold, "threshold", services.DefaultEnumerationThreshold, "largest optional-stop count evaluated exhaustively")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel subset evaluators")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall time budget (0 = none)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a trip file's stops and cost coverage without optimizing",
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := tripfile.Load(file)
			if err != nil {
				return err
			}
			u, err := services.BuildUniverse(tf.Input())
			if err != nil {
				return err
			}
			m, err := tf.Matrix()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "locations=%d mandatory=%d optional=%d legs=%d\n",
				len(u.Stops), u.MandatoryCount, u.OptionalCount, m.Len())

			missing := m.Missing(u.IDs())
			for _, p := range missing {
				fmt.Fprintf(out, "missing %s -> %s\n", p[0], p[1])
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d ordered pairs have no cost", len(missing))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "trip YAML file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeTable(w io.Writer, opt *services.Optimization) {
	if opt.Notice != nil {
		fmt.Fprintf(w, "NOTE: %s\n\n", opt.Notice.Message())
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tROUTE\tORDER\tDURATION\tDISTANCE\tEXTRA TIME\tEXTRA DIST")
	for _, r := range opt.Rankings {
		fmt.Fprintf(tw, "%d\t%s\t%v\t%s\t%dm\t%+ds\t%+dm\n",
			r.Rank, r.Name, r.Order,
			time.Duration(r.DurationSeconds)*time.Second, r.DistanceMeters,
			r.ExtraDurationSeconds, r.ExtraDistanceMeters,
		)
	}
	_ = tw.Flush()

	for _, f := range opt.Failures {
		fmt.Fprintf(w, "FAILED %s: %v\n", f.StopSet, f.Err)
	}

	s := opt.Summary
	fmt.Fprintf(w, "\n%d of %d combinations evaluated; fastest %s, slowest %s, average %.1fs\n",
		s.Evaluated, s.Combinations,
		time.Duration(s.Fastest.DurationSeconds)*time.Second,
		time.Duration(s.Slowest.DurationSeconds)*time.Second,
		s.AverageDurationSeconds,
	)
}

type jsonFailure struct {
	OptionalStops []string `json:"optional_stops"`
	Error         string   `json:"error"`
}

type jsonOutput struct {
	Mode     domain.EnumerationMode `json:"mode"`
	Notice   string                 `json:"notice,omitempty"`
	Partial  bool                   `json:"partial"`
	Rankings []domain.RankedResult  `json:"rankings"`
	Failures []jsonFailure          `json:"failures,omitempty"`
	Summary  services.Summary       `json:"summary"`
}

func writeJSON(w io.Writer, opt *services.Optimization) error {
	out := jsonOutput{
		Mode:     opt.Mode,
		Partial:  opt.Partial,
		Rankings: opt.Rankings,
		Summary:  opt.Summary,
	}
	if opt.Notice != nil {
		out.Notice = opt.Notice.Message()
	}
	for _, f := range opt.Failures {
		out.Failures = append(out.Failures, jsonFailure{OptionalStops: f.StopSet.IDs, Error: f.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
