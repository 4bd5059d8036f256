package main

import (
	"testing"

	"finplan/internal/config"
	"finplan/internal/models"
	"finplan/internal/testutil"
)

// setupTestServer wires the application against a temporary data directory
func setupTestServer(t *testing.T) *testutil.TestServer {
	t.Helper()

	testutil.SetTestEnv(t)
	store = nil
	if err := SetupDependencies(config.Load()); err != nil {
		t.Fatalf("Failed to setup dependencies: %v", err)
	}
	t.Cleanup(func() { resultCache.Close() })

	return testutil.NewTestServer(t, SetupRouter())
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	testutil.AssertResponse(t, ts.GET("/api/health")).
		StatusOK().
		ContentTypeJSON().
		ContainsAll(`"status":"ok"`, `"encrypted":false`)
}

func TestCalculatorEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	ids := []models.CalculatorID{
		models.CalcRiskProfile, models.CalcAssetAllocation, models.CalcSIP, models.CalcLumpsum,
		models.CalcRetirementAccum, models.CalcSWP, models.CalcRetirementDist, models.CalcEMI,
		models.CalcHomeAfford, models.CalcInsurance, models.CalcTax,
	}
	for _, id := range ids {
		t.Run(string(id), func(t *testing.T) {
			testutil.AssertResponse(t, ts.GET("/api/calculators/"+string(id))).
				StatusOK().
				ContentTypeJSON().
				ContainsAll(`"tool":"`+string(id)+`"`, `"figures":`, `"share":"tool=`+string(id))

			testutil.AssertResponse(t, ts.GET("/api/calculators/"+string(id)+"/report.pdf")).
				StatusOK().
				ContentTypePDF().
				HasPrefix("%PDF-")
		})
	}
}

func TestScenarioFlow(t *testing.T) {
	ts := setupTestServer(t)

	var s models.Scenario
	testutil.AssertResponse(t, ts.POSTJSON("/api/scenarios", map[string]any{
		"name":   "Retirement",
		"tool":   "retirement-accum",
		"params": map[string]any{"age": 35, "retireAge": 55},
	})).Status(201).JSON(&s)

	testutil.AssertResponse(t, ts.GET("/api/scenarios/"+s.ID)).
		StatusOK().
		ContainsAll(`"name":"Retirement"`, `"required_corpus"`)

	testutil.AssertResponse(t, ts.GET("/api/backup")).
		StatusOK().
		ContentType("application/zip")
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	testutil.AssertResponse(t, ts.GET("/dashboard")).StatusNotFound()
}
