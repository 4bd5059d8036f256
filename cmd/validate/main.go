// Package main provides a CLI tool for validating finplan server endpoints.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

type endpoint struct {
	path        string
	contentType string
	contains    []string
}

var endpoints = []endpoint{
	{path: "/api/health", contentType: "application/json", contains: []string{`"status":"ok"`}},
	{path: "/api/calculators", contentType: "application/json", contains: []string{`"id":"sip"`, `"id":"tax"`}},

	// One request per calculator, using defaults
	{path: "/api/calculators/risk-profile", contentType: "application/json", contains: []string{`"answered"`}},
	{path: "/api/calculators/asset-allocation", contentType: "application/json", contains: []string{`"equity"`}},
	{path: "/api/calculators/sip", contentType: "application/json", contains: []string{`"final_value"`}},
	{path: "/api/calculators/lumpsum?mode=reverse", contentType: "application/json", contains: []string{`"required_investment"`}},
	{path: "/api/calculators/retirement-accum", contentType: "application/json", contains: []string{`"required_corpus"`}},
	{path: "/api/calculators/swp", contentType: "application/json", contains: []string{`"years_sustained"`}},
	{path: "/api/calculators/retirement-dist", contentType: "application/json", contains: []string{`"years_sustained"`}},
	{path: "/api/calculators/emi?loan=5000000&rate=8.5&tenure=20", contentType: "application/json", contains: []string{`"installment"`}},
	{path: "/api/calculators/home-afford", contentType: "application/json", contains: []string{`"max_loan"`}},
	{path: "/api/calculators/insurance", contentType: "application/json", contains: []string{`"gap"`}},
	{path: "/api/calculators/tax?ctc=1200000", contentType: "application/json", contains: []string{`"total_tax"`}},

	{path: "/api/calculators/sip/share?monthly=5000", contentType: "application/json", contains: []string{"tool=sip"}},
	{path: "/api/calculators/emi/report.pdf", contentType: "application/pdf", contains: []string{"%PDF-"}},
	{path: "/api/scenarios", contentType: "application/json"},
}

type result struct {
	endpoint endpoint
	status   int
	duration time.Duration
	err      error
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of the server to validate")
	verbose := flag.Bool("v", false, "Verbose output")
	timeout := flag.Int("timeout", 10, "Request timeout in seconds")
	flag.Parse()

	client := &http.Client{
		Timeout: time.Duration(*timeout) * time.Second,
	}

	fmt.Printf("Validating server at %s\n", *url)
	fmt.Printf("Testing %d endpoints...\n\n", len(endpoints))

	var passed, failed int
	for _, ep := range endpoints {
		r := validateEndpoint(client, *url, ep)

		switch {
		case r.err != nil:
			failed++
			fmt.Printf("FAIL GET %s\n     Error: %v\n", ep.path, r.err)
		case r.status != http.StatusOK:
			failed++
			fmt.Printf("FAIL GET %s\n     Status: %d (expected 200)\n", ep.path, r.status)
		default:
			passed++
			if *verbose {
				fmt.Printf("PASS GET %s (%v)\n", ep.path, r.duration)
			}
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	resp, err := client.Get(baseURL + ep.path)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to read body: %w", err)}
	}

	r := result{endpoint: ep, status: resp.StatusCode, duration: time.Since(start)}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, ep.contentType) {
		r.err = fmt.Errorf("wrong content type: got %q, expected %q", ct, ep.contentType)
		return r
	}
	if ep.contentType == "application/json" && !json.Valid(body) {
		r.err = fmt.Errorf("invalid JSON body")
		return r
	}
	for _, needle := range ep.contains {
		if !strings.Contains(string(body), needle) {
			r.err = fmt.Errorf("missing expected content: %q", needle)
			return r
		}
	}
	return r
}
