// Command veridian is the Veridian compiler front end driver. It parses
// and type-checks Veridian sources, reporting every diagnostic found in
// one run, and can re-run the check whenever a source file changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veridian-lang/veridian/internal/allocator"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/lexer"
	"github.com/veridian-lang/veridian/internal/manifest"
	"github.com/veridian-lang/veridian/internal/parser"
	"github.com/veridian-lang/veridian/internal/symbols"
	"github.com/veridian-lang/veridian/internal/typechecker"
	"github.com/veridian-lang/veridian/internal/watch"
)

const version = "0.3.0"

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		parseOnly   = flag.Bool("parse", false, "stop after parsing")
		watchMode   = flag.Bool("watch", false, "recheck whenever a source changes")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: veridian [options] <file.vd>...\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("veridian %s (language %s)\n", version, manifest.LanguageVersion)
		return
	}
	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := checkManifest(files[0]); err != nil {
		fmt.Fprintf(os.Stderr, "veridian: %v\n", err)
		os.Exit(1)
	}

	arena := allocator.New(0)

	if *watchMode {
		runWatch(arena, files, *parseOnly)
		return
	}
	if !compile(arena, files, *parseOnly) {
		os.Exit(1)
	}
}

// checkManifest applies the project manifest when one sits next to the
// sources. A missing manifest is not an error.
func checkManifest(source string) error {
	path := filepath.Join(filepath.Dir(source), manifest.Filename)
	m, err := manifest.Load(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.CheckLanguage()
}

// compile runs the front end over the given files and prints every
// diagnostic. It reports whether all files were clean.
func compile(arena *allocator.Arena, files []string, parseOnly bool) bool {
	ok := true
	for _, file := range files {
		if !compileFile(arena, file, parseOnly) {
			ok = false
		}
	}
	return ok
}

func compileFile(arena *allocator.Arena, file string, parseOnly bool) bool {
	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "veridian: %v\n", err)
		return false
	}

	handler := diagnostics.NewHandler()
	tokens := lexer.New(file, string(content)).Tokenize()
	program := parser.New(tokens, file, handler).Parse()

	if !parseOnly && !handler.HadErrors() {
		table, err := symbols.Build(program, handler)
		if err == nil {
			scope := arena.AcquireScope()
			typechecker.Check(program, handler, table, scope)
			scope.Release()
		}
	}

	for _, d := range handler.Sorted() {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Span.Start, d.Level, d.Message)
	}
	return !handler.HadErrors()
}

// runWatch compiles once, then recompiles the whole file set on every
// source change until interrupted.
func runWatch(arena *allocator.Arena, files []string, parseOnly bool) {
	compile(arena, files, parseOnly)

	w, err := watch.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "veridian: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	watched := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if watched[dir] {
			continue
		}
		watched[dir] = true
		if err := w.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "veridian: %v\n", err)
			os.Exit(1)
		}
	}

	for {
		select {
		case path := <-w.Events():
			fmt.Fprintf(os.Stderr, "veridian: %s changed, rechecking\n", path)
			compile(arena, files, parseOnly)
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "veridian: watch: %v\n", err)
		}
	}
}
