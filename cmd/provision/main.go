// Command provision builds a static worker plan: how many workers poll each
// topic, at which interval, and in which offset slot.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"
	"worker-fleet/internal/logger"
	"worker-fleet/internal/provision"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	exitFunc           = os.Exit
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(stderr, "provision:", err)
		exitFunc(1)
	}
}

func run(args []string) error {
	opts, err := NewOptions()
	if err != nil {
		return err
	}
	fs := pflag.NewFlagSet("provision", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: opts.LogLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}

	total, err := opts.WorkerCount()
	if err != nil {
		return err
	}

	cat := catalog.Default()
	planner := provision.NewPlanner(cat,
		provision.WithEndpointBase(opts.EndpointBase),
		provision.WithLogger(log),
	)
	plan, err := planner.Build(total)
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	data, err := encodePlan(plan, opts.Format)
	if err != nil {
		return err
	}

	summaryOut := stdout
	if opts.Out == "" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
		summaryOut = stderr
	} else {
		if err := os.WriteFile(opts.Out, data, 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		log.Info().Str("path", opts.Out).Int("workers", total).Msg("plan written")
	}

	fmt.Fprintln(summaryOut, renderSummary(provision.Summarize(plan, cat), plan.TotalWorkers))
	return nil
}

func encodePlan(plan *domain.Plan, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(plan)
	case "json", "":
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrConfiguration, format)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
)

func renderSummary(rows []provision.SummaryRow, total int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TOPIC", "ASSET", "TIMEFRAME", "TARGET", "ACTUAL", "SHARE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 3:
				return numStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		t.Row(
			strconv.Itoa(r.TopicID),
			r.Symbol,
			r.Timeframe,
			strconv.Itoa(r.Target),
			strconv.Itoa(r.Actual),
			fmt.Sprintf("%.1f%%", r.Percent),
		)
	}
	return fmt.Sprintf("%s\nworkers: %d", t.String(), total)
}
