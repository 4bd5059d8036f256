package calculators

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apphttp "finplan/internal/http"
	"finplan/internal/models"
	"finplan/internal/services/cache"
	calc "finplan/internal/services/calculators"
	"finplan/internal/services/metrics"
	"finplan/internal/services/report"
	"finplan/internal/services/sharestate"
)

// maxBodyBytes bounds a JSON parameter body
const maxBodyBytes = 64 << 10

var (
	results    *cache.Results
	metricsSvc *metrics.Service
	now        = time.Now
)

// Initialize sets up the calculators package with required dependencies
func Initialize(r *cache.Results, m *metrics.Service) {
	results = r
	metricsSvc = m
}

// RegisterRoutes registers all calculator routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/calculators", handleList)
	r.Get("/api/calculators/{id}", handleCalculateQuery)
	r.Post("/api/calculators/{id}", handleCalculateJSON)
	r.Get("/api/calculators/{id}/share", handleShare)
	r.Get("/api/calculators/{id}/report.pdf", handleReport)
}

// Response is the body returned for a calculation
type Response struct {
	*models.CalculationResult
	Params   models.Params         `json:"params"`
	Advanced bool                  `json:"advanced"`
	Share    string                `json:"share"`
	Summary  *models.GrowthSummary `json:"summary,omitempty"`
}

// Request is the JSON body accepted by POST /api/calculators/{id}
type Request struct {
	Params   models.Params `json:"params"`
	Advanced bool          `json:"advanced"`
}

func handleList(w http.ResponseWriter, r *http.Request) {
	apphttp.WriteJSON(w, calc.Tools(), http.StatusOK)
}

// lookupTool resolves the {id} URL parameter, writing a 404 when unknown
func lookupTool(w http.ResponseWriter, r *http.Request) (calc.Tool, bool) {
	id := models.CalculatorID(chi.URLParam(r, "id"))
	tool, ok := calc.Lookup(id)
	if !ok {
		apphttp.ErrorResponse(w, fmt.Sprintf("unknown calculator %q", id), http.StatusNotFound)
	}
	return tool, ok
}

// paramsFromQuery reads the tool's parameters from the request query string.
// Values go through the share codec, so a pasted share query works as is.
func paramsFromQuery(tool calc.Tool, query url.Values) (models.Params, bool) {
	advanced, _ := strconv.ParseBool(query.Get("advanced"))

	values := url.Values{}
	for k, v := range query {
		values[k] = v
	}
	if values.Get(sharestate.ToolKey) == "" {
		values.Set(sharestate.ToolKey, string(tool.ID))
	}
	return sharestate.Decode(values.Encode(), tool.ID, tool.Keys()), advanced
}

// onlyKnown drops parameters the tool does not understand
func onlyKnown(tool calc.Tool, params models.Params) models.Params {
	out := models.Params{}
	for _, k := range tool.Keys() {
		if v, ok := params[k]; ok {
			out[k] = v
		}
	}
	return out
}

func calculate(r *http.Request, tool calc.Tool, params models.Params, advanced bool) *Response {
	merged := tool.Defaults.Merge(params)
	advanced = advanced && tool.SupportsAdvanced

	compute := func() *models.CalculationResult {
		return tool.Calculate(merged, advanced)
	}
	var result *models.CalculationResult
	if results != nil {
		result = results.GetOrCompute(r.Context(), cache.Key(tool.ID, merged, advanced), compute)
	} else {
		result = compute()
	}

	resp := &Response{
		CalculationResult: result,
		Params:            merged,
		Advanced:          advanced,
		Share:             sharestate.Encode(tool.ID, merged),
	}
	if metricsSvc != nil {
		resp.Summary = metricsSvc.Summarize(result)
	}
	return resp
}

// writeResult sends a calculation, or a 422 when the inputs drove it out of
// the finite range
func writeResult(w http.ResponseWriter, tool calc.Tool, resp *Response) {
	if !resp.Finite() {
		apphttp.ErrorResponse(w, fmt.Sprintf("%s has no finite result for these inputs", tool.ID), http.StatusUnprocessableEntity)
		return
	}
	apphttp.WriteJSON(w, resp, http.StatusOK)
}

func handleCalculateQuery(w http.ResponseWriter, r *http.Request) {
	tool, ok := lookupTool(w, r)
	if !ok {
		return
	}
	params, advanced := paramsFromQuery(tool, r.URL.Query())
	writeResult(w, tool, calculate(r, tool, params, advanced))
}

func handleCalculateJSON(w http.ResponseWriter, r *http.Request) {
	tool, ok := lookupTool(w, r)
	if !ok {
		return
	}

	var req Request
	if err := apphttp.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		apphttp.ErrorResponse(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeResult(w, tool, calculate(r, tool, onlyKnown(tool, req.Params), req.Advanced))
}

func handleShare(w http.ResponseWriter, r *http.Request) {
	tool, ok := lookupTool(w, r)
	if !ok {
		return
	}
	params, advanced := paramsFromQuery(tool, r.URL.Query())
	query := sharestate.Encode(tool.ID, tool.Defaults.Merge(params))
	if advanced && tool.SupportsAdvanced {
		query += "&advanced=true"
	}

	apphttp.WriteJSON(w, map[string]string{
		"query": query,
		"path":  "/api/calculators/" + string(tool.ID) + "?" + query,
	}, http.StatusOK)
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	tool, ok := lookupTool(w, r)
	if !ok {
		return
	}
	params, advanced := paramsFromQuery(tool, r.URL.Query())
	resp := calculate(r, tool, params, advanced)
	if !resp.Finite() {
		apphttp.ErrorResponse(w, fmt.Sprintf("%s has no finite result for these inputs", tool.ID), http.StatusUnprocessableEntity)
		return
	}

	pdf, err := report.Generate(report.Request{
		Title:       tool.Label,
		Params:      resp.Params,
		Advanced:    resp.Advanced,
		Result:      resp.CalculationResult,
		ShareQuery:  resp.Share,
		GeneratedAt: now(),
	})
	if err != nil {
		log.Printf("Error generating report for %s: %v", tool.ID, err)
		apphttp.ErrorResponse(w, "could not generate report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.pdf", tool.ID, now().Format("20060102")))
	w.Write(pdf)
}
