package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
)

// maxInputBytes bounds stdin and file input
const maxInputBytes = 64 << 20

type analyzeFlags struct {
	bandsFile string
	sections  int
	start     string
	end       string
	workers   int
	asJSON    bool
}

type analyzeOutput struct {
	Source   string                   `json:"source"`
	Overall  analyzer.Result          `json:"overall"`
	Sections []analyzer.SectionResult `json:"sections,omitempty"`
	Trends   []analyzer.BandTrend     `json:"trends,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Decode a JPEG and print the share of pixels in each color band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.bandsFile, "bands", "", "YAML band file (default: built-in Schumann bands)")
	cmd.Flags().IntVar(&flags.sections, "sections", 0, "Split the image into N time columns")
	cmd.Flags().StringVar(&flags.start, "start", "00:00", "Clock label of the first column")
	cmd.Flags().StringVar(&flags.end, "end", "23:59", "Clock label of the last column")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Scan workers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func runAnalyze(cmd *cobra.Command, source string, flags analyzeFlags) error {
	bands, err := analyzer.LoadBands(flags.bandsFile)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	grid, err := analyzer.Decode(raw)
	if err != nil {
		return err
	}

	a := analyzer.NewImageAnalyzer(analyzer.DefaultOptions().WithWorkers(flags.workers))
	defer a.Close()

	start := time.Now()
	out := analyzeOutput{Source: source}
	if out.Overall, err = a.Analyze(grid, bands); err != nil {
		return err
	}

	if flags.sections > 0 {
		opts := analyzer.SectionOptions{Count: flags.sections}
		if opts.Start, err = analyzer.ParseClock(flags.start); err != nil {
			return err
		}
		if opts.End, err = analyzer.ParseClock(flags.end); err != nil {
			return err
		}
		if out.Sections, err = a.AnalyzeSections(grid, bands, opts); err != nil {
			return err
		}
		out.Trends = analyzer.SummarizeTrends(out.Sections)
	}

	logger.WithFields(logrus.Fields{
		"source":     source,
		"width":      grid.Width(),
		"height":     grid.Height(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Analysis completed")

	w := cmd.OutOrStdout()
	if flags.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printAnalysis(w, out)
}

func readInput(stdin io.Reader, source string) ([]byte, error) {
	r := stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if len(data) > maxInputBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", source, maxInputBytes)
	}
	return data, nil
}

func printAnalysis(w io.Writer, out analyzeOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Image\t%dx%d (%d pixels)\n\n", out.Overall.Width, out.Overall.Height, out.Overall.TotalPixels)
	fmt.Fprintln(tw, "BAND\tPIXELS\tPERCENT")
	for _, b := range out.Overall.Bands {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", b.Name, b.Pixels, b.Percentage)
	}

	if len(out.Sections) > 0 {
		fmt.Fprint(tw, "\nTIME")
		for _, b := range out.Overall.Bands {
			fmt.Fprintf(tw, "\t%s", b.Name)
		}
		fmt.Fprintln(tw)
		for _, s := range out.Sections {
			fmt.Fprint(tw, s.Label)
			for _, b := range s.Result.Bands {
				fmt.Fprintf(tw, "\t%.2f%%", b.Percentage)
			}
			fmt.Fprintln(tw)
		}

		fmt.Fprintln(tw, "\nBAND\tMEAN\tSTDDEV\tMIN\tMAX\tPEAK")
		for _, t := range out.Trends {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n", t.Name, t.Mean, t.StdDev, t.Min, t.Max, t.PeakLabel)
		}
	}
	return tw.Flush()
}
