// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// jitprofiling replays a dump of JIT events into profiler outputs: a perf
// jitdump file with line tables, a perf map, and optionally a per-line
// attribution of sampled addresses.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/jitdump"
	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/metrics"
	"go.opentelemetry.io/jitprofiling/perfmap"
	"go.opentelemetry.io/jitprofiling/remotememory"
	"go.opentelemetry.io/jitprofiling/replay"
	"go.opentelemetry.io/jitprofiling/symtab"
	"go.opentelemetry.io/jitprofiling/vc"
)

type exitCode int

const (
	exitSuccess exitCode = 0
	exitFailure exitCode = 1

	// Go 'flag' package calls os.Exit(2) on flag parse errors, if ExitOnError is set
	exitParseError exitCode = 2
)

func main() {
	os.Exit(int(mainWithExitCode()))
}

func mainWithExitCode() exitCode {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		return parseError("Failure to parse arguments: %v", err)
	}

	if cfg.Version {
		fmt.Printf("%s\n", vc.Version())
		return exitSuccess
	}

	if cfg.Verbose {
		log.SetDebugLogger()
		cfg.Dump()
	}

	if err = cfg.Validate(); err != nil {
		return parseError("%v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer cancel()

	log.Infof("Starting jitprofiling %s", vc.Describe())
	if err = run(ctx, cfg, os.Stdout); err != nil {
		return failure("%v", err)
	}
	return exitSuccess
}

// run replays the dump into the configured sinks and prints the sample
// attribution, if requested, to out.
func run(ctx context.Context, cfg *config, out io.Writer) (err error) {
	pid := libpf.PID(cfg.PID)

	summary := newMetricsSummary()
	metrics.SetReporter(summary)
	defer metrics.SetReporter(nil)

	table, err := symtab.New(uint32(cfg.CacheSize))
	if err != nil {
		return fmt.Errorf("failed to create symbol table: %w", err)
	}
	sinks := jitreport.MultiSink{table}

	if cfg.Jitdump {
		var opts []jitdump.Option
		if cfg.ReadCode {
			opts = append(opts, jitdump.WithRemoteMemory(remotememory.NewProcessVirtualMemory(pid)))
		}
		w, openErr := jitdump.Open(cfg.JitdumpDir, pid, opts...)
		if openErr != nil {
			return openErr
		}
		defer func() { err = errors.Join(err, w.Close()) }()
		sinks = append(sinks, w)
		log.Infof("Writing %s", w.Path())
	}
	if cfg.PerfMap {
		w, openErr := perfmap.Open(cfg.PerfMapDir, pid)
		if openErr != nil {
			return openErr
		}
		defer func() { err = errors.Join(err, w.Close()) }()
		sinks = append(sinks, w)
		log.Infof("Writing %s", w.Path())
	}

	stats, err := replayDump(ctx, cfg.DumpPath, jitreport.New(sinks))
	if err != nil {
		return err
	}
	log.Infof("Replayed %d translations and %d trampolines, %d without unit, %d sink errors",
		stats.Translations, stats.Trampolines, stats.Aborted, stats.SinkErrors)
	summary.log()

	if cfg.Samples == "" {
		return nil
	}
	hist, err := attributeSamples(cfg.Samples, table)
	if err != nil {
		return err
	}
	printHistogram(out, hist)
	return nil
}

func replayDump(ctx context.Context, path string, rep *jitreport.Reporter) (replay.Stats, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return replay.Stats{}, fmt.Errorf("failed to open dump: %w", err)
		}
		defer f.Close()
		in = f
	}

	dec, err := replay.NewDecoder(in)
	if err != nil {
		return replay.Stats{}, err
	}
	defer dec.Close()
	return replay.Replay(ctx, dec, rep)
}

// attributeSamples reads one hex address per line. Blank lines and lines
// starting with # are skipped.
func attributeSamples(path string, table *symtab.Table) (*symtab.Histogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples: %w", err)
	}
	defer f.Close()

	hist := symtab.NewHistogram(table)
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(line, "0x"), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid address %q", path, lineNo, line)
		}
		hist.Add(libpf.Address(addr))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return hist, nil
}

func printHistogram(out io.Writer, hist *symtab.Histogram) {
	for _, fc := range hist.Counts() {
		fmt.Fprintf(out, "%8d  %s:%d  %s\n", fc.Count,
			fc.Frame.SourceFile, fc.Frame.SourceLine, fc.Frame.FunctionName)
	}
	if n := hist.Unresolved(); n > 0 {
		fmt.Fprintf(out, "%8d  [unresolved]\n", n)
	}
}

func parseError(msg string, args ...any) exitCode {
	log.Errorf(msg, args...)
	return exitParseError
}

func failure(msg string, args ...any) exitCode {
	log.Errorf(msg, args...)
	return exitFailure
}
