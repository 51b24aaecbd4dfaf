package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/flxj/gmatch"
	"github.com/flxj/gmatch/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] <data graph> <query graph> <candidate set>

Enumerates every embedding of the query graph into the data graph and
prints one line per match to stdout (or -o). With -serve the process
instead exposes match jobs over HTTP.

flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var (
		serve      = flag.Bool("serve", false, "run the HTTP match service instead of one batch run")
		configPath = flag.String("config", "", "YAML config file for service mode")
		host       = flag.String("host", "127.0.0.1", "service listen host")
		port       = flag.Int("port", 8080, "service listen port")
		edgeLabels = flag.Bool("edge-labels", false, "require query and data edge labels to match")
		outPath    = flag.String("o", "", "write matches to this file instead of stdout")
		jsonLog    = flag.Bool("json", false, "log in JSON instead of console format")
		verbose    = flag.Bool("verbose", false, "log at debug level")
	)
	flag.Usage = usage
	flag.Parse()

	logger := initLogger(*jsonLog, *verbose)
	defer func() { _ = logger.Sync() }()

	if *serve {
		runService(logger, *configPath, *host, *port)
		return
	}

	if flag.NArg() != 3 {
		usage()
		os.Exit(2)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("create output file", zap.Error(err))
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var opts []gmatch.MatchOption
	if *edgeLabels {
		opts = append(opts, gmatch.WithEdgeLabelCheck())
	}

	start := time.Now()
	if err := gmatch.Run(out, flag.Arg(0), flag.Arg(1), flag.Arg(2), opts...); err != nil {
		logger.Fatal("match run failed", zap.Error(err))
	}
	logger.Debug("match run done", zap.Duration("elapsed", time.Since(start)))
}

func runService(logger *zap.Logger, configPath, host string, port int) {
	conf := defaultConfig()
	conf.Host = host
	conf.Port = port
	if configPath != "" {
		var err error
		if conf, err = loadConfig(configPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}

	svc := service.NewService(conf.Host, conf.Port, logger)
	if err := svc.Run(); err != nil {
		logger.Fatal("match service failed", zap.Error(err))
	}
}
