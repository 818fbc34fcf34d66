// Command ragengine is a command-line driver for the training iterator and the
// graph file codec. It mirrors cmd/dvid/main.go's flag-based command dispatch, scaled
// down to this module's one operator-facing action, train.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/janelia-flyem/ragengine/features"
	"github.com/janelia-flyem/ragengine/graphio"
	"github.com/janelia-flyem/ragengine/internal/rconfig"
	"github.com/janelia-flyem/ragengine/internal/rlog"
	"github.com/janelia-flyem/ragengine/train"
)

var (
	configPath = flag.String("config", "", "path to a TOML configuration file")
	graphPath  = flag.String("graph", "", "path to a graph file")
	mode       = flag.String("mode", "flat", "training mode: flat, queue, or lash")
)

const helpMessage = `
ragengine is a command-line interface to the RAG training iterator

Usage: ragengine [options] train

      -config  =string   Path to a TOML configuration file. Defaults are used if unset.
      -graph   =string   Path to a graph file (required).
      -mode    =string   Training mode: flat, queue, or lash. (default "flat")
`

func main() {
	flag.Usage = func() { fmt.Print(helpMessage) }
	flag.Parse()

	if flag.NArg() < 1 || flag.Arg(0) != "train" {
		fmt.Print(helpMessage)
		os.Exit(1)
	}
	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "ragengine: -graph is required")
		os.Exit(1)
	}

	cfg := rconfig.Default()
	if *configPath != "" {
		loaded, err := rconfig.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ragengine: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	rlog.Configure(&rlog.Config{
		Logfile: cfg.Log.Logfile,
		MaxSize: cfg.Log.MaxLogSize,
		MaxAge:  cfg.Log.MaxLogAge,
	})

	g, _, err := graphio.Load(*graphPath, graphio.LoadOptions{})
	if err != nil {
		rlog.Errorf("loading %s: %v", *graphPath, err)
		os.Exit(1)
	}

	agg := features.NewMomentAggregator()
	oracle := features.NewBodyOverlapOracle()
	oracle.MitoOverride = cfg.Training.UseMito

	opts := train.Options{Threshold: cfg.Training.Threshold}
	switch *mode {
	case "queue":
		opts.Mode = train.PriorityQueue
	case "lash":
		opts.Mode = train.LASH
	default:
		opts.Mode = train.Flat
	}

	res, err := train.Run(g, agg, oracle, opts)
	if err != nil {
		rlog.Errorf("training: %v", err)
		os.Exit(1)
	}
	rlog.Infof("done: %d rows, %d merges, accuracy %.4f", res.RowsCollected, res.MergesApplied, res.Accuracy)
}
