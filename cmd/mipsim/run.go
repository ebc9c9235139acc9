package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/mipsim/datarecording"
	"github.com/sarchlab/mipsim/machine"
	"github.com/sarchlab/mipsim/monitoring"
	"github.com/sarchlab/mipsim/sim"
)

var (
	runConfigPath  string
	runProgram     string
	runPipeline    bool
	runExtendedALU bool
	runTrace       string
	runMonitorPort int
	runOpenBrowser bool
)

// runCmd executes a program to completion and prints the register
// contents.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a program on the simulated datapath",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(runConfigPath)
		if err != nil {
			logrus.Fatalf("Cannot load config: %v", err)
		}

		m, err := buildMachine(cfg, runPipeline, runExtendedALU)
		if err != nil {
			logrus.Fatalf("Cannot build machine: %v", err)
		}

		program, err := loadProgramFile(runProgram)
		if err != nil {
			logrus.Fatalf("Cannot load program: %v", err)
		}
		m.LoadProgram(program)

		engine := m.Engine()
		engine.AcceptHook(sim.NewCycleLogger(logrus.StandardLogger()))

		if runTrace != "" {
			recorder := datarecording.New(runTrace)
			defer recorder.Close()

			engine.AcceptHook(datarecording.NewCycleTracer(recorder))
			datarecording.RecordTiming(recorder, m.Datapath())
		}

		if runMonitorPort != 0 {
			monitor := monitoring.NewMonitor().WithPortNumber(runMonitorPort)
			monitor.RegisterEngine(engine)
			monitor.StartServer()
			if runOpenBrowser {
				if err := monitor.OpenDashboard(); err != nil {
					logrus.Warnf("Cannot open browser: %v", err)
				}
			}
		}

		if err := engine.ExecuteAll(); err != nil {
			logrus.Fatalf("Execution aborted: %v", err)
		}
		logrus.Infof("Program finished after %d cycles", engine.CurrentCycle())

		printRegisters(os.Stdout, m)
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "",
		"YAML machine description")
	runCmd.Flags().StringVar(&runProgram, "program", "",
		"Program file, one hexadecimal machine word per line")
	runCmd.Flags().BoolVar(&runPipeline, "pipeline", false,
		"Use the 5-stage pipelined datapath")
	runCmd.Flags().BoolVar(&runExtendedALU, "extended-alu", false,
		"Use the ALU with multiply, divide and hi/lo moves")
	runCmd.Flags().StringVar(&runTrace, "trace", "",
		"Record a cycle trace into a SQLite database at this path")
	runCmd.Flags().IntVar(&runMonitorPort, "monitor", 0,
		"Serve the monitoring API on this port")
	runCmd.Flags().BoolVar(&runOpenBrowser, "open", false,
		"Open the monitoring dashboard in the browser")
	runCmd.MarkFlagRequired("program")
}

func printRegisters(w io.Writer, m *machine.Machine) {
	dp := m.Datapath()
	regs := m.Registers()
	for i := 0; i < regs.RegisterCount(); i++ {
		name, _ := dp.RegisterName(i)
		fmt.Fprintf(w, "$%-4s = 0x%08x\n", name, regs.Register(i))
	}
}
