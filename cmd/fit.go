package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/zipfit/core/fit"
	"github.com/kilianp07/zipfit/core/model"
	"github.com/kilianp07/zipfit/infra/logger"
)

var (
	fitSamplesPath string
	fitVn          float64
	fitSn          float64
	fitSolver      string
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a ZIP model to a CSV sample file and print the result",
	Long: `Reads (voltage, active power, reactive power) rows from a CSV file,
fits a ZIP load model and prints the result as JSON. A header row is skipped
when the first field is not numeric.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVarP(&fitSamplesPath, "samples", "s", "", "CSV file with v,p,q rows")
	fitCmd.Flags().Float64Var(&fitVn, "vn", 0, "nominal voltage in volts")
	fitCmd.Flags().Float64Var(&fitSn, "sn", 0, "base apparent power in VA (0 = estimate)")
	fitCmd.Flags().StringVar(&fitSolver, "solver", "", "solver override")
	if err := fitCmd.MarkFlagRequired("samples"); err != nil {
		panic(err)
	}
	if err := fitCmd.MarkFlagRequired("vn"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	set, err := readSamples(fitSamplesPath)
	if err != nil {
		return fmt.Errorf("read samples: %w", err)
	}

	fitter, err := fit.New(fit.Config{Solver: fitSolver}, logger.New("fit-command"))
	if err != nil {
		return err
	}
	result, err := fitter.Fit(context.Background(), set, fitVn, fit.Options{NominalPower: fitSn})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readSamples(path string) (model.SampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	var set model.SampleSet
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("row %d: expected 3 fields, got %d", i+1, len(row))
		}
		v, errV := strconv.ParseFloat(row[0], 64)
		p, errP := strconv.ParseFloat(row[1], 64)
		q, errQ := strconv.ParseFloat(row[2], 64)
		if errV != nil || errP != nil || errQ != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("row %d: non-numeric field", i+1)
		}
		set = append(set, model.Sample{V: v, P: p, Q: q})
	}
	return set, nil
}
