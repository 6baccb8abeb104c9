// Command ribc compiles and optionally evaluates a Rib script from the
// command line: ribc <script.rib> [-ctx=<context.json|.yaml>] [-ast]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/ribflow/rib/internal/config"
	"github.com/ribflow/rib/pkg/rib"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	var scriptPath, ctxPath string
	printAST := false
	for _, arg := range os.Args[1:] {
		switch {
		case arg == "-ast" || arg == "--ast":
			printAST = true
		case strings.HasPrefix(arg, "-ctx="):
			ctxPath = strings.TrimPrefix(arg, "-ctx=")
		case arg == "-ctx" || arg == "--ctx":
			// value consumed on the next iteration isn't available here;
			// require the -ctx=<path> form instead.
		case !strings.HasPrefix(arg, "-"):
			scriptPath = arg
		}
	}

	if scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ribc <script"+config.SourceFileExt+"> [-ctx=<context.json|.yaml>] [-ast]")
		os.Exit(1)
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	expr, info, err := rib.Compile(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if printAST {
		fmt.Println(rib.ToString(expr))
		if info != nil {
			for _, name := range info.Names {
				fmt.Printf("  %s: %s\n", name, info.Types[name])
			}
		}
		return
	}

	if ctxPath == "" {
		fmt.Println(rib.ToString(expr))
		return
	}

	values, err := loadContext(ctxPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result, err := rib.Evaluate(expr, rib.NewMapContext(values))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var out []byte
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out, err = json.MarshalIndent(result.ToJSON(), "", "  ")
	} else {
		out, err = json.Marshal(result.ToJSON())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func loadContext(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return values, nil
}
