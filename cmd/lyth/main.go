// Command lyth is the interactive driver for the language's front-end
// pipeline: it reads one logical statement at a time, runs it through
// the scanner/lexer/parser/analyzer chain, and prints the result or
// the diagnostic that stopped it.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lyth-lang/lyth/pkgs/analyzer"
	"github.com/lyth-lang/lyth/pkgs/diag"
	"github.com/lyth-lang/lyth/pkgs/diag/schema"
	"github.com/lyth-lang/lyth/pkgs/lexer"
	"github.com/lyth-lang/lyth/pkgs/parser"
	"github.com/lyth-lang/lyth/pkgs/scanner"
	"github.com/lyth-lang/lyth/pkgs/session"
	"github.com/lyth-lang/lyth/pkgs/symbol"
)

var (
	cycleSpec    string
	jsonOutput   bool
	watchFile    string
	snapshotFile string
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	os.Exit(run())
}

func run() int {
	exitCode := 0

	root := &cobra.Command{
		Use:           "lyth",
		Short:         "Run the lyth front-end pipeline's interactive driver",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, bounded, err := parseCycleSpec(cycleSpec)
			if err != nil {
				return err
			}
			if watchFile != "" {
				return runWatch(watchFile)
			}
			exitCode = runInteractive(n, bounded)
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cycleSpec, "cycle", "c", "", "cycle=N: run for exactly N+1 cycles (absent: unbounded)")
	flags.BoolVar(&jsonOutput, "json", false, "render diagnostics as JSON, schema-validated before printing")
	flags.StringVar(&watchFile, "watch", "", "watch a script file and re-run it on every write")
	flags.StringVar(&snapshotFile, "snapshot", "", "write a CBOR snapshot of the symbol table after each cycle")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// parseCycleSpec parses the "-c cycle=N" flag's value. An empty spec
// means unbounded cycles.
func parseCycleSpec(spec string) (n int, bounded bool, err error) {
	if spec == "" {
		return 0, false, nil
	}
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 || parts[0] != "cycle" {
		return 0, false, fmt.Errorf("invalid -c value %q, expected cycle=N", spec)
	}
	n, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, false, fmt.Errorf("invalid -c value %q: %w", spec, err)
	}
	return n, true, nil
}

// lineReader wraps a bufio.Reader with a single-line pushback slot,
// the same one-unit lookaside idiom the lexer and parser use.
type lineReader struct {
	br         *bufio.Reader
	pending    string
	hasPending bool
}

func (lr *lineReader) next() (string, error) {
	if lr.hasPending {
		lr.hasPending = false
		return lr.pending, nil
	}
	return lr.br.ReadString('\n')
}

func (lr *lineReader) pushBack(line string) {
	lr.pending = line
	lr.hasPending = true
}

// readStatement gathers one driver input: a plain line, or, when the
// first line begins with "let:" or ends with ':', its
// continuation lines up to a blank line or a line with no leading
// whitespace (which belongs to the next statement, and is pushed
// back).
func readStatement(lr *lineReader) (string, error) {
	first, err := lr.next()
	if err != nil {
		return "", err
	}
	text := first

	trimmed := strings.TrimRight(first, "\r\n")
	isBlockHead := strings.HasPrefix(strings.TrimSpace(trimmed), "let:") || strings.HasSuffix(trimmed, ":")
	if isBlockHead {
		for {
			cont, err := lr.next()
			if err != nil {
				break
			}
			trimmedCont := strings.TrimRight(cont, "\r\n")
			if trimmedCont == "" {
				text += cont
				break
			}
			if cont[0] != ' ' && cont[0] != '\t' {
				lr.pushBack(cont)
				break
			}
			text += cont
		}
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

func runInteractive(n int, bounded bool) int {
	registry := symbol.NewRegistry()
	az := analyzer.New(registry, "stdin")
	lr := &lineReader{br: bufio.NewReader(os.Stdin)}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	exitCode := 0
	count := 0

	for !bounded || count <= n {
		fmt.Fprint(os.Stdout, ">>> ")

		type readResult struct {
			text string
			err  error
		}
		resultCh := make(chan readResult, 1)
		go func() {
			text, err := readStatement(lr)
			resultCh <- readResult{text, err}
		}()

		var res readResult
		select {
		case res = <-resultCh:
		case <-sigCh:
			fmt.Println()
			fmt.Println("Keyboard interrupt.")
			fmt.Println("Goodbye.")
			return exitCode
		}

		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				break
			}
			logger.Error("read failed", "error", res.err)
			exitCode = 1
			break
		}

		value, err := evalOnce(az, "stdin", res.text)
		switch {
		case err == nil:
			if value != nil {
				fmt.Println(value)
			}
		case errors.Is(err, parser.ErrEndOfProgram):
			// Nothing to evaluate on this cycle (e.g. a bare blank
			// line, which the parser reads as the terminating blank
			// line of the input).
		default:
			var de *diag.Error
			if errors.As(err, &de) {
				reportDiagnostic(de)
			} else {
				logger.Error("internal error", "error", err)
				exitCode = 1
			}
		}

		if snapshotFile != "" {
			if err := writeSnapshot(az); err != nil {
				logger.Warn("snapshot write failed", "error", err)
			}
		}

		if bounded {
			count++
		}
	}

	fmt.Println("Goodbye.")
	return exitCode
}

func evalOnce(az *analyzer.Analyzer, filename, text string) (any, error) {
	scan := scanner.New(text, filename)
	lex := lexer.New(scan)
	p := parser.New(lex)

	node, err := p.NextStatement()
	if err != nil {
		return nil, err
	}
	return az.Visit(node, analyzer.Load)
}

func reportDiagnostic(de *diag.Error) {
	if jsonOutput {
		payload, err := de.JSON()
		if err == nil {
			if verr := schema.Validate(payload); verr == nil {
				fmt.Println(string(payload))
				return
			} else {
				logger.Warn("diagnostic failed schema validation, falling back to text", "error", verr)
			}
		}
	}
	fmt.Println(de.Render())
}

func writeSnapshot(az *analyzer.Analyzer) error {
	data, err := session.Encode(az.Root())
	if err != nil {
		return err
	}
	return os.WriteFile(snapshotFile, data, 0o644)
}

// runWatch re-runs the whole pipeline, with a fresh registry and
// analyzer, every time path is written to. Reloads are sequential: one
// file, one reload at a time.
func runWatch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	reload := func() {
		az, err := runFile(path)
		if err != nil {
			logger.Error("watch: reload failed", "path", path, "error", err)
			return
		}
		if snapshotFile != "" {
			if err := writeSnapshot(az); err != nil {
				logger.Warn("snapshot write failed", "error", err)
			}
		}
	}

	reload()
	logger.Info("watching", "path", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Info("reload", "path", path)
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func runFile(path string) (*analyzer.Analyzer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	registry := symbol.NewRegistry()
	az := analyzer.New(registry, path)
	scan := scanner.New(text, path)
	lex := lexer.New(scan)
	p := parser.New(lex)

	for {
		node, err := p.NextStatement()
		if err != nil {
			if errors.Is(err, parser.ErrEndOfProgram) {
				return az, nil
			}
			var de *diag.Error
			if errors.As(err, &de) {
				reportDiagnostic(de)
				return az, nil
			}
			return az, err
		}
		value, err := az.Visit(node, analyzer.Load)
		if err != nil {
			var de *diag.Error
			if errors.As(err, &de) {
				reportDiagnostic(de)
				continue
			}
			return az, err
		}
		if value != nil {
			fmt.Println(value)
		}
	}
}
