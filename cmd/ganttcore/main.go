package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mfriesen/ganttcore/internal/baseline"
	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/cpm"
	"github.com/mfriesen/ganttcore/internal/evm"
	"github.com/mfriesen/ganttcore/internal/graph"
	"github.com/mfriesen/ganttcore/internal/leveling"
	"github.com/mfriesen/ganttcore/internal/loader"
	"github.com/mfriesen/ganttcore/internal/model"
	"github.com/mfriesen/ganttcore/internal/reporter"
	"github.com/mfriesen/ganttcore/internal/ui"
)

var (
	flagJSON    bool
	flagOutput  string
	flagWatch   bool
	flagAsOf    string
	flagMaxScan int
	flagClear   bool
	flagFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ganttcore",
		Short: "Calendar-aware CPM scheduling, resource leveling, and earned value",
		Long: `Ganttcore reads a project file (activities, dependencies, resources,
calendars), runs critical path analysis with working-day arithmetic, rolls
schedules up the WBS tree, levels resource over-allocations, and reports
earned-value metrics.`,
	}

	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(levelCmd())
	rootCmd.AddCommand(evmCmd())
	rootCmd.AddCommand(baselineCmd())
	rootCmd.AddCommand(vizCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runSchedule is shared logic for the schedule and viz commands.
func runSchedule(path string) (*model.Plan, *cpm.Result, error) {
	plan, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := cpm.Schedule(plan)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule project: %w", err)
	}
	if baseline.Exists() {
		if b, err := baseline.Load(); err == nil {
			b.Apply(plan)
		}
	}
	return plan, result, nil
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <project-file>",
		Short: "Run CPM analysis and print the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagWatch {
				return watchAndReschedule(args[0])
			}
			return scheduleOnce(args[0])
		},
	}

	cmd.Flags().StringVar(&flagOutput, "output", "", "Save schedule JSON to file")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-run whenever the project file changes")

	return cmd
}

func scheduleOnce(path string) error {
	plan, result, err := runSchedule(path)
	if err != nil {
		return err
	}

	rpt := reporter.New(plan, result)
	if flagOutput != "" {
		data, err := rpt.JSON()
		if err != nil {
			return err
		}
		return os.WriteFile(flagOutput, data, 0644)
	}
	if flagJSON {
		data, err := rpt.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	ui.PrintLogo()
	rpt.PrintSchedule(os.Stdout)
	return nil
}

// watchAndReschedule re-runs the schedule whenever the project file is
// written. Watches the parent directory since editors typically replace
// the file rather than writing in place.
func watchAndReschedule(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	rerun := func() {
		fmt.Print("\033[2J\033[H") // clear screen
		if err := scheduleOnce(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("Error:"), err)
		}
		fmt.Printf("\n%s\n", ui.Dim("watching "+path+" — Ctrl-C to stop"))
	}
	rerun()

	abs, _ := filepath.Abs(path)
	var last time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			// debounce editor write bursts
			if time.Since(last) < 200*time.Millisecond {
				continue
			}
			last = time.Now()
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.Yellow("watch:"), err)
		}
	}
}

func levelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level <project-file>",
		Short: "Run resource-constrained leveling and print the leveled schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			lr, err := leveling.Level(plan, leveling.Config{MaxScanDays: flagMaxScan})
			if err != nil {
				return fmt.Errorf("level resources: %w", err)
			}
			result := &cpm.Result{ProjectFinish: lr.ProjectFinish}

			rpt := reporter.New(plan, result).WithLeveling(lr)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			rpt.PrintSchedule(os.Stdout)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().IntVar(&flagMaxScan, "max-scan", leveling.DefaultMaxScanDays, "Max days to scan for a capacity-feasible slot")

	return cmd
}

func evmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evm <project-file>",
		Short: "Compute earned-value metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, _, err := runSchedule(args[0])
			if err != nil {
				return err
			}

			asOf := calendar.Today()
			if flagAsOf != "" {
				asOf, err = calendar.ParseDate(flagAsOf)
				if err != nil {
					return err
				}
			}

			m := evm.Calculate(plan, asOf)
			if flagJSON {
				return outputJSON(m)
			}
			reporter.PrintEVM(os.Stdout, plan, m)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagAsOf, "as-of", "", "Status date for the report (YYYY-MM-DD, default today)")

	return cmd
}

func baselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline <project-file>",
		Short: "Snapshot the computed schedule as the baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagClear {
				if err := baseline.Clean(); err != nil {
					return err
				}
				fmt.Println("Baseline cleared.")
				return nil
			}

			plan, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			if _, err := cpm.Schedule(plan); err != nil {
				return fmt.Errorf("schedule project: %w", err)
			}

			b := baseline.Capture(plan)
			if err := b.Save(); err != nil {
				return err
			}
			fmt.Printf("%s %d activities, finish %s\n",
				ui.BoldGreen("Baseline saved:"), len(b.Entries), ui.Bold(b.Finish))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagClear, "clear", false, "Remove the saved baseline")

	return cmd
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz <project-file>",
		Short: "Print the dependency network (ascii or dot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, result, err := runSchedule(args[0])
			if err != nil {
				return err
			}
			g, err := graph.Build(plan.Activities, plan.Dependencies)
			if err != nil {
				return err
			}

			if flagFormat == "dot" {
				printDOT(plan, g)
				return nil
			}
			printASCII(plan, g, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")

	return cmd
}

func printASCII(plan *model.Plan, g *graph.DepGraph, result *cpm.Result) {
	fmt.Printf("%s %s\n", ui.BoldCyan("◫ Dependency Network"), ui.Dim(plan.Name))
	fmt.Printf("%s\n", ui.Cyan("═══════════════════════"))
	fmt.Printf("%s\n\n", ui.Dim(fmt.Sprintf("%d activities, %d dependencies", g.NodeCount(), len(plan.Dependencies))))

	for _, id := range result.TopoOrder {
		a := g.Nodes[id]
		fmt.Printf("  %s %s [%s] %s\n",
			ui.CriticalMark(a.Critical), ui.KindIcon(string(a.Kind)), ui.BoldMagenta(id), a.Name)
		for _, e := range g.Successors(id) {
			lag := ""
			if e.Lag != 0 {
				lag = fmt.Sprintf(" %+dd", e.Lag)
			}
			fmt.Printf("      %s %s %s\n", ui.Dim("└──"+string(e.Kind())+lag+"──→"), ui.Magenta(e.To), "")
		}
	}
	fmt.Println()
}

func printDOT(plan *model.Plan, g *graph.DepGraph) {
	fmt.Println("digraph ganttcore {")
	fmt.Println("  rankdir=LR;")
	fmt.Println("  node [shape=box, style=rounded];")
	fmt.Println()

	for _, a := range plan.Activities {
		label := fmt.Sprintf("%s\\n%s", a.ID, a.Name)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if a.Critical {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Printf("  %q [%s];\n", a.ID, attrs)
	}

	fmt.Println()

	for from, edges := range g.Out {
		for _, e := range edges {
			style := fmt.Sprintf(` [label="%s"]`, e.Kind())
			fromA, toA := g.Nodes[from], g.Nodes[e.To]
			if fromA != nil && fromA.Critical && toA != nil && toA.Critical {
				style = fmt.Sprintf(` [label="%s", color=red, penwidth=2]`, e.Kind())
			}
			fmt.Printf("  %q -> %q%s;\n", from, e.To, style)
		}
	}

	fmt.Println("}")
}

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
