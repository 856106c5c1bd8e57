package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"mvelc/pkg/driver"
)

const historyFile = ".mvelc_history"

func main() {
	configFlag := flag.String("config", "", "YAML file declaring the root object, inputs, context and classes")
	exprFlag := flag.String("e", "", "Compile the given expression and exit")
	jobsFlag := flag.Int("j", 0, "Parallel workers when compiling a directory (default: one per CPU)")
	flag.Parse()

	cfg := driver.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = driver.LoadConfig(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %s\n", err)
			os.Exit(64) // Exit code 64: command line usage error
		}
	}
	session, err := driver.NewMvelc(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %s\n", err)
		os.Exit(64)
	}

	if *exprFlag != "" {
		res, errs := session.CompileString(*exprFlag)
		if !driver.DisplayResult(os.Stdout, os.Stderr, *exprFlag, res, errs) {
			os.Exit(70) // Exit code 70: internal software error
		}
		return
	}

	switch flag.NArg() {
	case 0:
		runRepl(session)
	case 1:
		if info, err := os.Stat(flag.Arg(0)); err == nil && info.IsDir() {
			runDir(session, flag.Arg(0), *jobsFlag)
		} else {
			runFile(session, flag.Arg(0))
		}
	default:
		fmt.Fprintf(os.Stderr, "Usage: mvelc [-config file.yaml] [script | dir] or mvelc -e \"expression\"\n")
		os.Exit(64)
	}
}

func runFile(session *driver.Mvelc, filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file '%s': %s\n", filename, err)
		os.Exit(70)
	}
	res, errs := session.CompileFile(filename)
	if !driver.DisplayResult(os.Stdout, os.Stderr, string(data), res, errs) {
		os.Exit(70)
	}
}

// runDir compiles every unit under dir and prints each result under a
// header naming its file.
func runDir(session *driver.Mvelc, dir string, workers int) {
	fsys := os.DirFS(dir)
	paths, err := driver.FindUnits(fsys, ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(70)
	}
	results, stats, err := session.CompileAll(context.Background(), fsys, paths, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(70)
	}
	for _, unit := range results {
		fmt.Printf("// %s\n", filepath.Join(dir, unit.Path))
		driver.DisplayResult(os.Stdout, os.Stderr, unit.Source, unit.Result, unit.Errors)
	}
	fmt.Fprintf(os.Stderr, "%d units, %d failed (%d workers, avg %s)\n",
		stats.Units, stats.Failed, stats.WorkerCount, stats.AverageTime)
	if stats.Failed > 0 {
		os.Exit(70)
	}
}

// runRepl compiles one line at a time and prints the lowered code.
func runRepl(session *driver.Mvelc) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("mvelc (:quit or Ctrl+D to exit)")
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			return
		}

		code := strings.TrimSpace(line)
		switch code {
		case "":
			continue
		case ":quit":
			return
		}
		ln.AppendHistory(code)

		res, errs := session.CompileString(code)
		_ = driver.DisplayResult(os.Stdout, os.Stderr, code, res, errs)
	}
}
