package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"visual_traceroute/tracemap/internal/config"
	"visual_traceroute/tracemap/internal/httpapi"
	"visual_traceroute/tracemap/internal/mapview"
	"visual_traceroute/tracemap/internal/session"
	"visual_traceroute/tracemap/internal/traceclient"
)

const (
	exitOK    = 0
	exitTrace = 1
	exitUsage = 2
)

type args struct {
	endpoint   string
	timeout    time.Duration
	format     string
	configPath string
	logLevel   string
	outputFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseArgs(argv []string, stderr io.Writer) (args, string, error) {
	var a args
	fs := flag.NewFlagSet("tracecli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tracecli [flags] <target>\n")
		fs.PrintDefaults()
	}
	fs.StringVarP(&a.endpoint, "endpoint", "e", config.DefaultTraceEndpoint, "Base URL of the traceroute service")
	fs.DurationVarP(&a.timeout, "timeout", "t", config.DefaultTraceTimeout, "Upper bound for the whole trace")
	fs.StringVarP(&a.format, "format", "f", "text", "Output format: text or json")
	fs.StringVarP(&a.configPath, "config", "c", "", "YAML map settings file")
	fs.StringVar(&a.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")
	fs.StringVarP(&a.outputFile, "output-file", "o", "", "Write output here instead of stdout")

	if err := fs.Parse(argv); err != nil {
		return args{}, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return args{}, "", errors.New("exactly one target is required")
	}
	if a.format != "text" && a.format != "json" {
		return args{}, "", fmt.Errorf("unknown format %q", a.format)
	}
	return a, fs.Arg(0), nil
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	a, target, err := parseArgs(argv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "tracecli: %v\n", err)
		return exitUsage
	}

	logger := httpapi.NewLogger(stderr, a.logLevel)

	settings, err := config.LoadMapSettings(a.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "tracecli: %v\n", err)
		return exitUsage
	}

	client, err := traceclient.New(traceclient.Options{Endpoint: a.endpoint, Timeout: a.timeout})
	if err != nil {
		fmt.Fprintf(stderr, "tracecli: %v\n", err)
		return exitUsage
	}

	ctrl := session.NewController(logger, client, session.NewStore(), session.Options{})
	s, err := ctrl.RunTrace(ctx, target)
	if err != nil {
		fmt.Fprintf(stderr, "tracecli: %v\n", err)
		return exitUsage
	}

	out := stdout
	if a.outputFile != "" {
		f, err := os.Create(a.outputFile)
		if err != nil {
			fmt.Fprintf(stderr, "tracecli: %v\n", err)
			return exitTrace
		}
		defer f.Close()
		out = f
	}

	view := mapview.Project(s, settings)
	if a.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(view)
	} else {
		err = writeText(out, view, s)
	}
	if err != nil {
		fmt.Fprintf(stderr, "tracecli: write output: %v\n", err)
		return exitTrace
	}

	if s.Status == session.StatusError {
		return exitTrace
	}
	return exitOK
}
