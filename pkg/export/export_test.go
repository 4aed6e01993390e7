package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
)

func sampleRecord() (model.Horizon, Record) {
	h := model.NewHorizon(2009, 2010)
	b := model.NewBundle(h)
	b[model.StockTotal]["2009"] = 100
	b[model.CarbonCostCompetedEfficient]["2010"] = 2.5
	k := model.KeyChain{Kind: model.SegmentPrimary, Region: "r", Building: "b", Fuel: "f", EndUse: "e", Technology: "t", Vintage: model.VintageNew}
	res := &partition.Result{
		Bundle:    b,
		Diffusion: []diffusion.Warning{{Reason: diffusion.ReasonUnparseable, Detail: "coefficient \"a\""}},
		Warnings:  []string{"note"},
	}
	return h, NewRecord("run", "Technical potential", "m", k, res)
}

func TestWriteCSV(t *testing.T) {
	h, rec := sampleRecord()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, h, []Record{rec}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+model.NumOutputs*len(h))
	assert.Equal(t, []string{"run", "Technical potential", "m", "primary|r|b|f|e|t|new", "stock_total", "2009", "100"}, rows[1])
	last := rows[len(rows)-1]
	assert.Equal(t, "carbon_cost_competed_efficient", last[4])
	assert.Equal(t, "2.5", last[6])
}

func TestWriteJSON(t *testing.T) {
	_, rec := sampleRecord()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []Record{rec}))
	var got []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Outputs, model.NumOutputs)
	for i, o := range model.Outputs() {
		assert.Equal(t, o.String(), got[0].Outputs[i].Name)
	}
	assert.Equal(t, 100.0, got[0].Outputs[model.StockTotal].Values["2009"])
	require.Len(t, got[0].Warnings, 2)
	assert.Contains(t, got[0].Warnings[0], string(diffusion.ReasonUnparseable))
	assert.Equal(t, "note", got[0].Warnings[1])

	// contract order survives in the encoded text
	text := buf.String()
	assert.Less(t, strings.Index(text, `"stock_total"`), strings.Index(text, `"energy_total"`))
	assert.Less(t, strings.Index(text, `"carbon_competed_efficient"`), strings.Index(text, `"stock_cost_total"`))
}
