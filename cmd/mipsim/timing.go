package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	timingConfigPath  string
	timingPipeline    bool
	timingExtendedALU bool
)

// timingCmd prints the latency analysis of a datapath without running
// a program.
var timingCmd = &cobra.Command{
	Use:   "timing",
	Short: "Print the latency analysis and the critical path",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(timingConfigPath)
		if err != nil {
			logrus.Fatalf("Cannot load config: %v", err)
		}

		m, err := buildMachine(cfg, timingPipeline, timingExtendedALU)
		if err != nil {
			logrus.Fatalf("Cannot build machine: %v", err)
		}

		maxLatency := 0
		for _, c := range m.Datapath().Components() {
			if c.AccumulatedLatency() > maxLatency {
				maxLatency = c.AccumulatedLatency()
			}

			mark := "  "
			if c.InCriticalPath() {
				mark = "* "
			}
			fmt.Printf("%s%-16s latency=%-4d accumulated=%d\n",
				mark, c.Name(), c.Latency(), c.AccumulatedLatency())
		}
		fmt.Printf("\ncritical path delay: %d\n", maxLatency)
	},
}

func init() {
	timingCmd.Flags().StringVar(&timingConfigPath, "config", "",
		"YAML machine description")
	timingCmd.Flags().BoolVar(&timingPipeline, "pipeline", false,
		"Use the 5-stage pipelined datapath")
	timingCmd.Flags().BoolVar(&timingExtendedALU, "extended-alu", false,
		"Use the ALU with multiply, divide and hi/lo moves")
}
