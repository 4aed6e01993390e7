// Package export writes partition results as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
)

// Series is one named output series.
type Series struct {
	Name   string       `json:"name"`
	Values model.Series `json:"values"`
}

// Record is one partition result in export form. Outputs follow the bundle
// order.
type Record struct {
	RunID    string   `json:"run_id"`
	Scheme   string   `json:"scheme"`
	Measure  string   `json:"measure"`
	KeyChain string   `json:"key_chain"`
	Outputs  []Series `json:"outputs"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewRecord names the bundle series by output and gathers the diffusion
// fallbacks ahead of the other warnings.
func NewRecord(runID, scheme, measure string, k model.KeyChain, res *partition.Result) Record {
	r := Record{RunID: runID, Scheme: scheme, Measure: measure, KeyChain: k.String()}
	r.Outputs = make([]Series, 0, model.NumOutputs)
	for _, o := range model.Outputs() {
		r.Outputs = append(r.Outputs, Series{Name: o.String(), Values: res.Bundle[o]})
	}
	for _, w := range res.Diffusion {
		r.Warnings = append(r.Warnings, w.String())
	}
	r.Warnings = append(r.Warnings, res.Warnings...)
	return r
}

// WriteJSON writes the records to w in JSON format.
func WriteJSON(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// WriteCSV writes one row per record, output and year, following the
// contract order of the outputs and the horizon order of the years.
func WriteCSV(w io.Writer, h model.Horizon, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "scheme", "measure", "key_chain", "output", "year", "value"}); err != nil {
		return err
	}
	for _, r := range recs {
		for _, s := range r.Outputs {
			for _, y := range h {
				v, ok := s.Values[y]
				if !ok {
					continue
				}
				rec := []string{r.RunID, r.Scheme, r.Measure, r.KeyChain, s.Name, y, strconv.FormatFloat(v, 'f', -1, 64)}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
