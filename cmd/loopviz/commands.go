package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/loopviz/internal/config"
	"github.com/san-kum/loopviz/internal/metrics"
	"github.com/san-kum/loopviz/internal/playback"
	"github.com/san-kum/loopviz/internal/scenario"
	"github.com/san-kum/loopviz/internal/storage"
	"github.com/san-kum/loopviz/internal/trace"
	"github.com/san-kum/loopviz/internal/viz"
)

func runTUI(cmd *cobra.Command, ref string) error {
	if ref == "" {
		ref = cfg.Scenario
	}
	store, idx, _, err := lookup(ref)
	if err != nil {
		return err
	}

	ctrl, err := playback.NewController(store, playback.WithLogger(log))
	if err != nil {
		return err
	}
	if err := ctrl.Select(idx); err != nil {
		return err
	}

	m := viz.NewApp(ctrl, viz.AppOptions{
		Interval:  cfg.Interval,
		Theme:     viz.GetTheme(cfg.Theme),
		Autostart: cfg.Autostart,
		Logger:    log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSTEPS\tLINES\tMICROTASKS")

	for i, sc := range store.All() {
		micro := "no"
		for _, st := range sc.Steps {
			if _, ok := st.Items(scenario.MicrotaskQueue); ok {
				micro = "yes"
				break
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i, sc.Name, sc.Len(), len(sc.Code), micro)
	}

	return w.Flush()
}

func showScenario(cmd *cobra.Command, args []string) error {
	_, idx, sc, err := lookup(args[0])
	if err != nil {
		return err
	}

	first, last := 0, sc.Last()
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > sc.Len() {
			return fmt.Errorf("step must be between 1 and %d, got %q", sc.Len(), args[1])
		}
		first, last = n-1, n-1
	}

	fmt.Println(strings.Join(sc.Code, "\n"))
	fmt.Println()
	for i := first; i <= last; i++ {
		f := viz.Project(sc, playback.State{Scenario: idx, Step: i, Total: sc.Len()})
		fmt.Println(viz.RenderPlain(f))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	store, idx, _, err := lookup(args[0])
	if err != nil {
		return err
	}

	ctrl, err := playback.NewController(store, playback.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player := playback.NewPlayer(ctrl, cfg.Interval, func(st playback.State) {
		fmt.Println(viz.RenderPlain(viz.Project(ctrl.Scenario(), st)))
	}, log)
	defer player.Close()

	if err := player.Select(idx); err != nil {
		return err
	}
	if err := player.Start(ctx); err != nil {
		return err
	}
	if err := player.Wait(ctx); err != nil {
		return err
	}

	st := player.State()
	if !st.AtEnd() {
		return fmt.Errorf("playback interrupted at step %d of %d", st.Step+1, st.Total)
	}
	return nil
}

func traceOptions() trace.Options {
	return trace.Options{MaxTasks: maxTasks, Logger: log}
}

func verifyScenarios(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	targets := store.All()
	if len(args) > 0 {
		targets = targets[:0]
		for _, ref := range args {
			_, sc, err := store.Lookup(ref)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, store.Names())
			}
			targets = append(targets, sc)
		}
	}

	var st *storage.Store
	if saveRuns {
		st = storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTATUS\tTASKS\tELAPSED\tDETAIL\tRUN")

	reports, errs := trace.VerifyAll(cmd.Context(), targets, traceOptions())

	failed := 0
	for i, sc := range targets {
		rep, err := reports[i], errs[i]
		if err != nil {
			failed++
			log.Error().Err(err).Str("scenario", sc.Name).Msg("trace failed")
			fmt.Fprintf(w, "%s\tERROR\t-\t-\t%v\t-\n", sc.Name, err)
			continue
		}

		status := "ok"
		if !rep.OK() {
			status = "MISMATCH"
			failed++
		}
		runID := "-"
		if st != nil {
			if runID, err = st.Save(rep, metrics.Collect(sc)); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", sc.Name, status, rep.Result.Tasks, rep.Result.Elapsed, rep.Summary(), runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed verification", failed, len(targets))
	}
	return nil
}

func traceScenario(cmd *cobra.Command, args []string) error {
	_, _, sc, err := lookup(args[0])
	if err != nil {
		return err
	}

	res, err := trace.Run(cmd.Context(), sc.Source(), traceOptions())
	if res == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tAT\tKIND\tTIMER\tDELAY\tTEXT")
	for _, ev := range res.Events {
		timer, delay := "-", "-"
		if ev.TimerID != 0 {
			timer = strconv.FormatInt(ev.TimerID, 10)
			delay = ev.Delay.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", ev.Seq, ev.At, ev.Kind, timer, delay, ev.Text)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}

	fmt.Printf("\ntasks: %d  elapsed: %s  output: %s\n", res.Tasks, res.Elapsed, strings.Join(res.Output, ", "))
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tOK\tTASKS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%dms\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.OK,
			run.Tasks,
			run.ElapsedMS,
		)
	}

	return w.Flush()
}

func showStats(cmd *cobra.Command, args []string) error {
	_, _, sc, err := lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n\n", sc.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, r := range metrics.Collect(sc) {
		fmt.Fprintf(w, "%s\t%.4g\n", r.Name, r.Value)
	}
	return w.Flush()
}

func chartScenario(cmd *cobra.Command, args []string) error {
	_, _, sc, err := lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	fmt.Printf("steps: %d\n\n", sc.Len())

	for _, r := range scenario.Regions {
		data := metrics.Depths(sc, r)
		if len(data) < 2 {
			data = append(data, data...)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(5),
			asciigraph.Width(60),
			asciigraph.Caption(r.Title()+" depth per step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, _, sc, err := lookup(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, sc)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, _, sc, err := lookup(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, sc)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tINTERVAL\tAUTOSTART\tNOTE")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", name, p.Interval, p.Autostart, p.Note)
	}
	return w.Flush()
}
