// Command analyze runs the balance analysis engine over a recorded
// landmark trajectory file and prints the result as JSON. It exists for
// offline work with captured sessions, without standing up the HTTP
// server.
//
// The input file holds a pose.Trajectory: {"frames": [...], "fps": 30}.
// With -right a second recording is analyzed as the right-leg trial and
// a bilateral comparison is printed instead of a single result.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/monitoring"
	"github.com/stance-data/balance.report/internal/pose"
	"github.com/stance-data/balance.report/internal/report"
)

var (
	leg         = flag.String("leg", "left", "Standing leg of the recording (left|right)")
	age         = flag.Int("age", 0, "Athlete age in years (0 to skip age expectations)")
	maxDuration = flag.Float64("max-duration", 0, "Test duration cap in seconds (0 for configured default)")
	configFile  = flag.String("config", "", "Path to a tuning config JSON file (empty for built-in defaults)")
	rightFile   = flag.String("right", "", "Second trajectory file for the right leg; enables bilateral comparison")
	chartFile   = flag.String("chart", "", "Write an HTML sway chart of the (left) recording to this path")
	plotFile    = flag.String("plot", "", "Write a PNG sway plot of the (left) recording to this path")
	verbose     = flag.Bool("verbose", false, "Enable per-frame debug logging")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] trajectory.json\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	monitoring.SetVerbose(*verbose)

	cfg := config.EmptyTuningConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	analyzer := balance.NewAnalyzer(cfg)

	side := pose.Side(*leg)
	if !side.Valid() {
		log.Fatalf("invalid -leg %q: want left or right", *leg)
	}
	if *rightFile != "" && side != pose.SideLeft {
		log.Fatal("-right implies the positional file is the left-leg recording")
	}

	result := analyze(analyzer, flag.Arg(0), side, cfg)

	if *chartFile != "" || *plotFile != "" {
		writeSwayOutputs(flag.Arg(0), cfg)
	}

	var out interface{} = result
	if *rightFile != "" {
		rightResult := analyze(analyzer, *rightFile, pose.SideRight, cfg)
		out = analyzer.Compare(result, rightResult)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
}

func analyze(analyzer *balance.Analyzer, path string, side pose.Side, cfg *config.TuningConfig) *balance.Result {
	traj := loadTrajectory(path)

	duration := *maxDuration
	if duration == 0 {
		duration = cfg.GetMaxTestDuration()
	}

	result, err := analyzer.Analyze(traj, pose.SessionParams{
		StandingLeg: side,
		MaxDuration: duration,
		AthleteAge:  *age,
	})
	if err != nil {
		log.Fatalf("analysis of %s failed: %v", path, err)
	}
	return result
}

func loadTrajectory(path string) *pose.Trajectory {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read trajectory: %v", err)
	}
	var traj pose.Trajectory
	if err := json.Unmarshal(data, &traj); err != nil {
		log.Fatalf("failed to parse %s: %v", path, err)
	}
	return &traj
}

func writeSwayOutputs(path string, cfg *config.TuningConfig) {
	traj := loadTrajectory(path)
	filtered, err := balance.Preprocess(traj, cfg)
	if err != nil {
		log.Fatalf("failed to preprocess %s: %v", path, err)
	}

	if *chartFile != "" {
		f, err := os.Create(*chartFile)
		if err != nil {
			log.Fatalf("failed to create chart file: %v", err)
		}
		if err := report.SwayChartHTML(f, "Sway path", filtered); err != nil {
			log.Fatalf("failed to render chart: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("failed to write chart file: %v", err)
		}
	}

	if *plotFile != "" {
		if err := report.SwayPlotPNG(*plotFile, "Sway path", filtered); err != nil {
			log.Fatalf("failed to render plot: %v", err)
		}
	}
}
