// Command jpp extracts data from a JSON document according to RFC 9535.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/urfave/cli/v2"

	jsonpath "github.com/1gy/jpp"
)

func main() {
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}
	app := &cli.App{
		Name:      "jpp",
		Usage:     "extract data from JSON according to RFC 9535",
		UsageText: "jpp [--located] QUERY [FILE]",
		Version:   gitrev(),
		Action:    run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "located",
				Aliases: []string{"l"},
				Usage:   "print matched nodes paired with their normalized paths",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func gitrev() string {
	version := "(git revision unavailable)"
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, kv := range bi.Settings {
			if kv.Key == "vcs.revision" {
				version = kv.Value
			}
		}
	}
	return version
}

func run(ctx *cli.Context) error {
	query := ctx.Args().First()
	if query == "" {
		cli.ShowAppHelpAndExit(ctx, 1)
	}

	p, err := jsonpath.Parse(query)
	if err != nil {
		return fmt.Errorf("could not parse query: %w", err)
	}

	input, err := readInput(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(input, &v, json.DefaultOptionsV2()); err != nil {
		return fmt.Errorf("could not decode JSON input: %w", err)
	}

	if ctx.Bool("located") {
		return printResult(p.SelectLocated(v))
	}
	return printResult(p.Select(v))
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read JSON from stdin: %w", err)
		}
		return b, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return b, nil
}

func printResult(v any) error {
	if err := json.MarshalWrite(os.Stdout, v, jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("could not marshal results to JSON: %w", err)
	}
	fmt.Println()
	return nil
}
