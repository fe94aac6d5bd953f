// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	force := fs.Bool("force", false, "ignore the cache and re-render everything")
	quiet := fs.Bool("quiet", false, "suppress the progress bar")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <SAVE_DIR> <OUTPUT_DIR>\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	saveDir, outputDir := fs.Arg(0), fs.Arg(1)

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		fmt.Fprintf(os.Stderr, "little-a-map: creating output directory: %v\n", err)
		return 1
	}

	logfile, err := createLogFile(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "little-a-map: %v\n", err)
		return 1
	}
	defer logfile.Close()

	level := LevelInfo
	if envLevel := os.Getenv("LITTLE_A_MAP_LOG"); envLevel != "" {
		if l, ok := ParseLevel(envLevel); ok {
			level = l
		}
	}
	if *verbose {
		level = LevelDebug
	}

	stdlog := log.New(logfile, "", log.Ldate|log.Ltime|log.LUTC|log.Lshortfile)
	logger := NewLogger(stdlog, level)

	cfg := Config{
		SaveDir:   saveDir,
		OutputDir: outputDir,
		Force:     *force,
		Quiet:     *quiet,
		LogLevel:  level,
	}

	var reporter Reporter
	if *quiet {
		reporter = NewQuietReporter()
	} else {
		reporter = NewMpbReporter()
	}

	summary, err := Run(context.Background(), cfg, logger, reporter)
	reporter.Close()
	if err != nil {
		var setupErr *FatalSetupError
		if errors.As(err, &setupErr) {
			fmt.Fprintf(os.Stderr, "little-a-map: %v\n", setupErr)
			return 1
		}
		fmt.Fprintf(os.Stderr, "little-a-map: %v\n", err)
		logger.Errorf("run failed: %v", err)
		return 1
	}

	fmt.Println(summary.String())
	return 0
}
