package bufferph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultTitrationDataFile is the historical titration dataset used to fit
// the initial-pH correction.
const DefaultTitrationDataFile = "20220428_titration_data_for_initial_pH_prediction.csv"

// Column names in the titration dataset.
const (
	ColumnPredicted = "pred_initial_pH"
	ColumnObserved  = "initial_pH"
)

// TitrationData holds paired model and measured initial pH values.
type TitrationData struct {
	Predicted []float64
	Observed  []float64
}

// LoadTitrationData reads a CSV with a header row. The first column is a row
// label; the predicted and observed columns are found by name. Rows with an
// empty value in either column are skipped.
func LoadTitrationData(r io.Reader) (TitrationData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return TitrationData{}, fmt.Errorf("reading header: %w", err)
	}

	iPred := slices.Index(header, ColumnPredicted)
	iObs := slices.Index(header, ColumnObserved)
	if iPred <= 0 || iObs <= 0 {
		return TitrationData{}, fmt.Errorf("header %v: need columns %q and %q after the index column",
			header, ColumnPredicted, ColumnObserved)
	}

	var data TitrationData
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TitrationData{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= max(iPred, iObs) || rec[iPred] == "" || rec[iObs] == "" {
			continue
		}

		pred, err := strconv.ParseFloat(rec[iPred], 64)
		if err != nil {
			return TitrationData{}, fmt.Errorf("line %d %s: %w", line, ColumnPredicted, err)
		}
		obs, err := strconv.ParseFloat(rec[iObs], 64)
		if err != nil {
			return TitrationData{}, fmt.Errorf("line %d %s: %w", line, ColumnObserved, err)
		}
		data.Predicted = append(data.Predicted, pred)
		data.Observed = append(data.Observed, obs)
	}

	return data, nil
}

// LinearCorrection is the least-squares line observed = Intercept + Slope·predicted.
type LinearCorrection struct {
	Intercept float64
	Slope     float64
	RSquared  float64 // Goodness of fit on the training data (1.0 = perfect)
}

// Correct applies the fitted line to a single model pH.
func (c LinearCorrection) Correct(pH float64) float64 {
	return c.Intercept + c.Slope*pH
}

// FitLinearCorrection fits observed against predicted by ordinary least
// squares.
func FitLinearCorrection(predicted, observed []float64) (LinearCorrection, error) {
	if len(predicted) != len(observed) {
		return LinearCorrection{}, fmt.Errorf("length mismatch: %d predicted, %d observed", len(predicted), len(observed))
	}
	if len(predicted) < 2 {
		return LinearCorrection{}, fmt.Errorf("need at least 2 data points, got %d", len(predicted))
	}
	if floats.Max(predicted) == floats.Min(predicted) {
		return LinearCorrection{}, fmt.Errorf("predicted values are constant (%g): slope is undefined", predicted[0])
	}

	alpha, beta := stat.LinearRegression(predicted, observed, nil, false)

	return LinearCorrection{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  stat.RSquared(predicted, observed, nil, alpha, beta),
	}, nil
}

// Fit fits a LinearCorrection to d.
func (d TitrationData) Fit() (LinearCorrection, error) {
	return FitLinearCorrection(d.Predicted, d.Observed)
}

// LoadLinearCorrection reads a titration dataset from path and fits it.
func LoadLinearCorrection(path string) (LinearCorrection, error) {
	f, err := os.Open(path)
	if err != nil {
		return LinearCorrection{}, err
	}
	defer f.Close()

	data, err := LoadTitrationData(f)
	if err != nil {
		return LinearCorrection{}, fmt.Errorf("%s: %w", path, err)
	}
	c, err := data.Fit()
	if err != nil {
		return LinearCorrection{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
