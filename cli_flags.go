// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/perfmap"
	"go.opentelemetry.io/jitprofiling/symtab"
)

const (
	// Default values for CLI flags
	defaultArgJitdumpDir = "."
	defaultArgPerfMapDir = perfmap.DefaultDir
	defaultArgCacheSize  = symtab.DefaultCacheSize
)

// Help strings for command line arguments
var (
	dumpHelp       = "Path of the JIT event dump to replay, plain or zstd compressed. Use - for stdin."
	jitdumpHelp    = "Write a perf jitdump file (jit-<pid>.dump)."
	jitdumpDirHelp = "Directory for the jitdump file."
	perfMapHelp    = "Append symbols to a perf map file (perf-<pid>.map)."
	perfMapDirHelp = "Directory for the perf map file."
	pidHelp        = "PID the generated code belongs to. Defaults to the PID of this process."
	readCodeHelp   = "Copy the machine code of every method from the memory of -pid " +
		"into the jitdump file."
	samplesHelp = "File of sampled code addresses, one hex address per line, " +
		"to attribute to source lines after the replay."
	cacheSizeHelp   = "Number of resolved sample addresses to cache."
	configFileHelp  = "Path to a plain text configuration file with one flag per line."
	verboseModeHelp = "Enable verbose logging and debugging capabilities."
	versionHelp     = "Show version."
)

type config struct {
	ConfigFile string
	DumpPath   string
	Jitdump    bool
	JitdumpDir string
	PerfMap    bool
	PerfMapDir string
	PID        uint
	ReadCode   bool
	Samples    string
	CacheSize  uint
	Verbose    bool
	Version    bool

	Fs *flag.FlagSet
}

func parseArgs(args []string) (*config, error) {
	var cfg config

	fs := flag.NewFlagSet("jitprofiling", flag.ContinueOnError)

	// Please keep the parameters ordered alphabetically in the source-code.
	fs.UintVar(&cfg.CacheSize, "cache-size", defaultArgCacheSize, cacheSizeHelp)
	fs.StringVar(&cfg.ConfigFile, "config", "", configFileHelp)
	fs.StringVar(&cfg.DumpPath, "dump", "", dumpHelp)
	fs.BoolVar(&cfg.Jitdump, "jitdump", false, jitdumpHelp)
	fs.StringVar(&cfg.JitdumpDir, "jitdump-dir", defaultArgJitdumpDir, jitdumpDirHelp)
	fs.BoolVar(&cfg.PerfMap, "perfmap", false, perfMapHelp)
	fs.StringVar(&cfg.PerfMapDir, "perfmap-dir", defaultArgPerfMapDir, perfMapDirHelp)
	fs.UintVar(&cfg.PID, "pid", uint(os.Getpid()), pidHelp)
	fs.BoolVar(&cfg.ReadCode, "read-code", false, readCodeHelp)
	fs.StringVar(&cfg.Samples, "samples", "", samplesHelp)

	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, verboseModeHelp)
	fs.BoolVar(&cfg.Version, "version", false, versionHelp)

	fs.Usage = func() {
		fs.PrintDefaults()
	}

	cfg.Fs = fs

	return &cfg, ff.Parse(fs, args,
		ff.WithEnvVarPrefix("JITPROFILING"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	)
}

// Dump visits all flags and dumps them to debug. Used in verbose mode.
func (cfg *config) Dump() {
	log.Debug("Config:")
	cfg.Fs.VisitAll(func(f *flag.Flag) {
		log.Debug(fmt.Sprintf("%s: %v", f.Name, f.Value))
	})
}

// Validate runs validations on the provided configuration, and returns errors
// if invalid values were provided.
func (cfg *config) Validate() error {
	if cfg.DumpPath == "" {
		return errors.New("no dump given, use -dump")
	}
	if cfg.PID == 0 || cfg.PID > 1<<22 {
		return fmt.Errorf("invalid pid %d", cfg.PID)
	}
	if cfg.ReadCode && !cfg.Jitdump {
		return errors.New("-read-code requires -jitdump")
	}
	if cfg.CacheSize == 0 || cfg.CacheSize > 1<<24 {
		return fmt.Errorf("invalid cache size %d", cfg.CacheSize)
	}
	return nil
}
