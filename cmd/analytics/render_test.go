package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureResponse() *domain.ForecastResponse {
	return &domain.ForecastResponse{
		ProductAnalysis: []domain.ForecastRecord{
			{Product: "Amul Butter", Category: "Dairy", Stock: 2, PredictedDemand: 10, Price: domain.Float64(50), Cost: domain.Float64(30)},
			{Product: "Lays", Category: "Snacks", Stock: 40, PredictedDemand: 20, Price: domain.Float64(10)},
		},
	}
}

func fixture() domain.Analysis {
	return analytics.Analyze(fixtureResponse())
}

func TestParseMonthFlag(t *testing.T) {
	n, err := parseMonthFlag("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = parseMonthFlag("march")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parseMonthFlag("Smarch")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, domain.ForecastRequest{Year: 2024, Month: 1, Holidays: 2}, analytics.AnalyzeTop(fixtureResponse(), 1)))

	out := buf.String()
	assert.Contains(t, out, "Demand analysis for January 2024 (2 holidays)")
	assert.Contains(t, out, "700.00")
	assert.Contains(t, out, "Amul Butter")
	assert.NotContains(t, out, "Lays")
}

func TestWriteTextTopBeyondDefault(t *testing.T) {
	resp := &domain.ForecastResponse{}
	for i := 0; i < 8; i++ {
		resp.ProductAnalysis = append(resp.ProductAnalysis, domain.ForecastRecord{
			Product: fmt.Sprintf("Item %d", i), Category: "Dairy", Stock: 100, PredictedDemand: 10 + i, Price: domain.Float64(1),
		})
	}

	a := analytics.AnalyzeTop(resp, 10)
	require.Len(t, a.TopPerformers, 8)

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, domain.ForecastRequest{Year: 2024, Month: 1}, a))
	assert.Contains(t, buf.String(), "Item 0")
	assert.Contains(t, buf.String(), "Item 7")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, domain.ForecastRequest{Year: 2024, Month: 1}, fixture()))

	var decoded struct {
		Financials domain.FinancialsView `json:"financials"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "400.00", decoded.Financials.Profit)
}
