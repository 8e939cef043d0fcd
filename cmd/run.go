package cmd

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/roisim/datarecording"
	"github.com/sarchlab/roisim/monitoring"
	"github.com/sarchlab/roisim/runner"
	"github.com/sarchlab/roisim/simulation"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

const defaultMatrixSize = 16

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload and report its region of interest.",
		Long: "Run a workload trace, or a generated matrix multiplication, " +
			"and print the simulated time, instructions and cycles.",
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	addMachineFlags(runCmd)

	flags := runCmd.Flags()
	flags.String("workload", "", "YAML instruction trace to run.")
	flags.Int("mm-size", defaultMatrixSize,
		"Matrix size of the generated matrix multiplication, used when no "+
			"workload is given.")
	flags.String("stats-db", "",
		"Record all statistics into a SQLite file, or a clickhouse:// DSN.")
	flags.Bool("monitor", false, "Serve the monitoring API while running.")
	flags.Int("monitor-port", monitorPortFromEnv(),
		"Port of the monitoring server. 0 picks a random port.")
	flags.Bool("open-browser", false, "Open the monitoring API in a browser.")

	return runCmd
}

func monitorPortFromEnv() int {
	port, err := strconv.Atoi(envOr(envMonitorPort, "0"))
	if err != nil {
		log.Warnf("ignoring %s: %v", envMonitorPort, err)
		return 0
	}

	return port
}

func loadWorkload(cmd *cobra.Command) (*workload.Trace, error) {
	if path, _ := cmd.Flags().GetString("workload"); path != "" {
		return workload.LoadTrace(path)
	}

	n, _ := cmd.Flags().GetInt("mm-size")

	return workload.MatrixMultiply(n)
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	trace, err := loadWorkload(cmd)
	if err != nil {
		return err
	}

	builder := simulation.MakeBuilder()

	if log.IsLevelEnabled(log.TraceLevel) {
		builder = builder.WithEventLogger(log.StandardLogger())
	}

	recorder, execRecorder, err := openRecorder(cmd)
	if err != nil {
		return err
	}

	if recorder != nil {
		defer recorder.Close()
		builder = builder.WithRecorder(recorder)
	}

	monitor := newMonitor(cmd)
	if monitor != nil {
		defer monitor.StopServer()
		builder = builder.WithMonitor(monitor)
	}

	run, err := runner.NewRun(cfg, builder.Build())
	if err != nil {
		return err
	}

	machine := run.Machine()

	if monitor != nil {
		monitor.RegisterROI(run.ROI())
		monitor.RegisterMachine(&machine)

		if err := startMonitor(cmd, monitor); err != nil {
			return err
		}
	}

	summary, err := executeRecorded(run, trace, execRecorder)
	if err != nil {
		return err
	}

	return summary.Render(cmd.OutOrStdout())
}

// executeRecorded executes the run. The exec_info rows are written whether
// or not the run succeeds.
func executeRecorded(
	run *runner.Run,
	trace *workload.Trace,
	execRecorder *datarecording.ExecRecorder,
) (stats.Summary, error) {
	if execRecorder == nil {
		return run.Execute(trace)
	}

	execRecorder.Start()
	defer execRecorder.End()

	execRecorder.Add("Workload", trace.Name())
	execRecorder.Add("ROI Policy", run.ROI().Policy().String())
	for _, f := range run.Machine().Fields() {
		execRecorder.Add(f.Key, f.Value)
	}

	summary, err := run.Execute(trace)
	if err != nil {
		execRecorder.Add("Error", err.Error())
		return nil, err
	}

	return summary, nil
}

func openRecorder(
	cmd *cobra.Command,
) (datarecording.DataRecorder, *datarecording.ExecRecorder, error) {
	target, _ := cmd.Flags().GetString("stats-db")
	if target == "" {
		return nil, nil, nil
	}

	recorder, err := datarecording.Open(target)
	if err != nil {
		return nil, nil, fmt.Errorf("opening stats db: %w", err)
	}

	return recorder, datarecording.NewExecRecorder(recorder), nil
}

func newMonitor(cmd *cobra.Command) *monitoring.Monitor {
	enabled, _ := cmd.Flags().GetBool("monitor")
	if !enabled {
		return nil
	}

	monitor := monitoring.NewMonitor()

	if port, _ := cmd.Flags().GetInt("monitor-port"); port > 0 {
		monitor.WithPortNumber(port)
	}

	return monitor
}

func startMonitor(cmd *cobra.Command, monitor *monitoring.Monitor) error {
	if _, err := monitor.StartServer(); err != nil {
		return err
	}

	if open, _ := cmd.Flags().GetBool("open-browser"); open {
		if err := monitor.OpenInBrowser(); err != nil {
			log.Warnf("cannot open browser: %v", err)
		}
	}

	return nil
}
