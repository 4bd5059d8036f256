package testutil

import (
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

// previewLen bounds how much of a body is echoed in failure messages
const previewLen = 500

// ResponseAssertion checks an API response. The body is read once, when the
// assertion is created, and every check runs against that copy.
type ResponseAssertion struct {
	t    *testing.T
	resp *http.Response
	body []byte
}

// AssertResponse reads and closes resp.Body and returns the assertion chain
func AssertResponse(t *testing.T, resp *http.Response) *ResponseAssertion {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return &ResponseAssertion{t: t, resp: resp, body: body}
}

func (ra *ResponseAssertion) preview() string {
	if len(ra.body) <= previewLen {
		return string(ra.body)
	}
	return string(ra.body[:previewLen]) + "..."
}

// Status checks the status code
func (ra *ResponseAssertion) Status(code int) *ResponseAssertion {
	ra.t.Helper()
	if got := ra.resp.StatusCode; got != code {
		ra.t.Errorf("status = %d %s, want %d %s\n%s",
			got, http.StatusText(got), code, http.StatusText(code), ra.preview())
	}
	return ra
}

func (ra *ResponseAssertion) StatusOK() *ResponseAssertion {
	ra.t.Helper()
	return ra.Status(http.StatusOK)
}

func (ra *ResponseAssertion) StatusNotFound() *ResponseAssertion {
	ra.t.Helper()
	return ra.Status(http.StatusNotFound)
}

func (ra *ResponseAssertion) StatusBadRequest() *ResponseAssertion {
	ra.t.Helper()
	return ra.Status(http.StatusBadRequest)
}

// ContentType checks that the Content-Type header contains mediaType
func (ra *ResponseAssertion) ContentType(mediaType string) *ResponseAssertion {
	ra.t.Helper()
	if ct := ra.resp.Header.Get("Content-Type"); !strings.Contains(ct, mediaType) {
		ra.t.Errorf("Content-Type = %q, want %s", ct, mediaType)
	}
	return ra
}

func (ra *ResponseAssertion) ContentTypeJSON() *ResponseAssertion {
	ra.t.Helper()
	return ra.ContentType("application/json")
}

func (ra *ResponseAssertion) ContentTypePDF() *ResponseAssertion {
	ra.t.Helper()
	return ra.ContentType("application/pdf")
}

// Contains checks for a substring of the body
func (ra *ResponseAssertion) Contains(substr string) *ResponseAssertion {
	ra.t.Helper()
	return ra.ContainsAll(substr)
}

// ContainsAll checks for every substring, reporting each one missing
func (ra *ResponseAssertion) ContainsAll(substrs ...string) *ResponseAssertion {
	ra.t.Helper()
	var missing []string
	for _, s := range substrs {
		if !strings.Contains(string(ra.body), s) {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		ra.t.Errorf("body is missing %q\n%s", missing, ra.preview())
	}
	return ra
}

// NotContains checks that substr is absent from the body
func (ra *ResponseAssertion) NotContains(substr string) *ResponseAssertion {
	ra.t.Helper()
	if strings.Contains(string(ra.body), substr) {
		ra.t.Errorf("body unexpectedly contains %q", substr)
	}
	return ra
}

// Matches checks the body against a regular expression
func (ra *ResponseAssertion) Matches(pattern string) *ResponseAssertion {
	ra.t.Helper()
	re, err := regexp.Compile(pattern)
	if err != nil {
		ra.t.Fatalf("bad pattern %q: %v", pattern, err)
	}
	if !re.Match(ra.body) {
		ra.t.Errorf("body does not match %q\n%s", pattern, ra.preview())
	}
	return ra
}

// HasPrefix checks the leading bytes, e.g. a file signature
func (ra *ResponseAssertion) HasPrefix(prefix string) *ResponseAssertion {
	ra.t.Helper()
	if !strings.HasPrefix(string(ra.body), prefix) {
		n := min(len(ra.body), 16)
		ra.t.Errorf("body starts with %q, want %q", ra.body[:n], prefix)
	}
	return ra
}

// JSON decodes the body into v and stops the test when it is not valid JSON
func (ra *ResponseAssertion) JSON(v any) *ResponseAssertion {
	ra.t.Helper()
	if err := json.Unmarshal(ra.body, v); err != nil {
		ra.t.Fatalf("decoding body: %v\n%s", err, ra.preview())
	}
	return ra
}

// ErrorMessage checks the "error" field of a JSON error body
func (ra *ResponseAssertion) ErrorMessage(substr string) *ResponseAssertion {
	ra.t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(ra.body, &e); err != nil || e.Error == "" {
		ra.t.Errorf("expected a JSON error body, got %s", ra.preview())
		return ra
	}
	if !strings.Contains(e.Error, substr) {
		ra.t.Errorf("error = %q, want it to mention %q", e.Error, substr)
	}
	return ra
}

// Figure checks a headline figure of a calculation response within tolerance
func (ra *ResponseAssertion) Figure(key string, want, tolerance float64) *ResponseAssertion {
	ra.t.Helper()
	var res struct {
		Figures []struct {
			Key   string  `json:"key"`
			Value float64 `json:"value"`
		} `json:"figures"`
	}
	if err := json.Unmarshal(ra.body, &res); err != nil {
		ra.t.Fatalf("decoding figures: %v\n%s", err, ra.preview())
	}
	for _, f := range res.Figures {
		if f.Key == key {
			if math.Abs(f.Value-want) > tolerance {
				ra.t.Errorf("figure %s = %.2f, want %.2f (±%g)", key, f.Value, want, tolerance)
			}
			return ra
		}
	}
	ra.t.Errorf("figure %s not in response", key)
	return ra
}

// Body returns the response body
func (ra *ResponseAssertion) Body() string {
	return string(ra.body)
}
