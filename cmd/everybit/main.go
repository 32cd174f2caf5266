package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wavesplatform/everybit/pkg/harness"
	"github.com/wavesplatform/everybit/pkg/util/common"
)

var version string

const (
	exitFailed = 1
	exitUsage  = 2
)

type config struct {
	small    bool
	medium   bool
	large    bool
	script   string
	only     int
	logLevel string
}

func main() {
	var (
		cfg         config
		showHelp    bool
		showVersion bool
	)
	flag.BoolVarP(&cfg.small, "small", "s", false, "Runs the small (0.01s) rotation performance test")
	flag.BoolVarP(&cfg.medium, "medium", "m", false, "Runs the medium (0.1s) rotation performance test")
	flag.BoolVarP(&cfg.large, "large", "l", false, "Runs the large (1s) rotation performance test")
	flag.StringVarP(&cfg.script, "tests", "t", "", "Runs all functional tests from the given script file")
	flag.IntVarP(&cfg.only, "number", "n", -1, "Runs only the test with the given number, requires --tests")
	flag.StringVar(&cfg.logLevel, "log-level", "INFO", "Logging level. Supported levels: DEBUG, INFO, WARN, ERROR, FATAL")
	flag.BoolVarP(&showHelp, "help", "h", false, "Print usage information (this message) and quit")
	flag.BoolVarP(&showVersion, "version", "v", false, "Print version information and quit")
	flag.Usage = showUsageAndExit
	flag.Parse()

	if showHelp {
		showUsageAndExit()
	}
	if showVersion {
		fmt.Printf("everybit %s\n", version)
		os.Exit(0)
	}

	logger, log := common.SetupLogger(cfg.logLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code, err := run(ctx, cfg, os.Stdout)
	if err != nil {
		log.Errorf("%v", err)
	}
	if code != 0 {
		cancel()
		_ = logger.Sync()
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) (int, error) {
	switch {
	case cfg.script != "":
		return runScript(ctx, cfg, out)
	case cfg.only >= 0:
		return exitUsage, errors.New("option --number requires --tests")
	case cfg.small:
		return 0, printTier(out, harness.TimedRotation(ctx, harness.SmallLimit))
	case cfg.medium:
		return 0, printTier(out, harness.TimedRotation(ctx, harness.MediumLimit))
	case cfg.large:
		return 0, printTier(out, harness.TimedRotation(ctx, harness.LargeLimit))
	default:
		printUsage(out)
		return 0, nil
	}
}

func runScript(ctx context.Context, cfg config, out io.Writer) (int, error) {
	defer common.TimeTrack(time.Now(), "Functional tests")
	f, err := os.Open(filepath.Clean(cfg.script))
	if err != nil {
		return exitUsage, errors.Wrap(err, "failed to open tests")
	}
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Warnf("Failed to close %q: %v", cfg.script, err)
		}
	}()
	cases, err := harness.ParseScript(f)
	if err != nil {
		return exitUsage, errors.Wrapf(err, "failed to parse %q", cfg.script)
	}
	opts := harness.Options{}
	if cfg.only >= 0 {
		opts.Only = &cfg.only
	}
	rep, err := harness.Run(ctx, cases, opts)
	if err != nil {
		return exitUsage, err
	}
	for _, r := range rep.Results {
		if r.Passed() {
			_, err = fmt.Fprintf(out, "test %d: ok\n", r.ID)
		} else {
			_, err = fmt.Fprintf(out, "test %d: FAIL: %v\n", r.ID, r.Err)
		}
		if err != nil {
			return exitFailed, errors.Wrap(err, "failed to write results")
		}
	}
	zap.S().Infof("%d of %d tests passed", len(rep.Results)-rep.Failed, len(rep.Results))
	if rep.Failed > 0 {
		return exitFailed, nil
	}
	return 0, nil
}

func printTier(out io.Writer, tier int) error {
	_, err := fmt.Fprintf(out, "---- RESULTS ----\nSuccesfully completed tier: %d\n---- END RESULTS ----\n", tier)
	return errors.Wrap(err, "failed to write results")
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: everybit [flags]")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func showUsageAndExit() {
	printUsage(os.Stdout)
	os.Exit(0)
}
