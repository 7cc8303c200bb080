package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theknight2/bex-calculator/internal/data"
	"github.com/theknight2/bex-calculator/internal/engine"
)

// errScenariosFailed 存在失败场景
var errScenariosFailed = errors.New("scenario suite failed")

type verifyFlags struct {
	scenarios string
	out       string
	jsonOut   string
}

func newVerifyCmd(a *app) *cobra.Command {
	f := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the fixed scenario suite against the calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.scenarios, "scenarios", "s", "", "scenario CSV file (default: built-in scenarios)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "text results file (default from config)")
	cmd.Flags().StringVar(&f.jsonOut, "json", "", "also export results as JSON to this file")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, f *verifyFlags) error {
	runner := engine.New(a.cfg.ToSuiteConfig())
	runner.SetCatalog(a.catalog)
	runner.SetLogger(a.log)

	path := f.scenarios
	if path == "" {
		path = a.cfg.Scenarios.Path
	}
	if path != "" {
		runner.SetLoader(data.NewCSVLoader(path))
	} else {
		runner.SetLoader(data.NewBuiltinLoader())
	}

	result, err := runner.Run()
	if err != nil {
		return err
	}

	renderer, err := a.renderer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderer.RenderSuite(result))

	resultsPath := f.out
	if resultsPath == "" {
		resultsPath = a.cfg.GetResultsPath()
	}
	if err := runner.WriteResultsFile(resultsPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nResults saved to: %s\n", resultsPath)

	jsonPath := f.jsonOut
	if jsonPath == "" {
		jsonPath = a.cfg.Output.JSONPath
	}
	if jsonPath != "" {
		if err := runner.ExportResults(jsonPath); err != nil {
			return err
		}
	}

	if !result.AllPassed() {
		return fmt.Errorf("%w: %d of %d scenarios failed", errScenariosFailed, result.Failed, result.Total)
	}
	return nil
}
