// Package gprofiler provides a narrow client for the g:Profiler g:GOSt
// functional enrichment service. It is an optional, secondary collaborator:
// the Key Event enrichment engine never depends on it, and a failure here
// must never degrade the primary report.
package gprofiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://biit.cs.ut.ee/gprofiler"

// ErrUnavailable marks any transport, server or decoding failure from the
// service. Callers must report the secondary view as unavailable rather
// than substituting stale or partial data.
var ErrUnavailable = errors.New("functional enrichment service unavailable")

// Client queries the g:GOSt profiling endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the public g:Profiler service.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the service endpoint (self-hosted instances, tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// Request describes one profiling query.
type Request struct {
	Organism  string   // e.g., "hsapiens"
	Query     []string // gene symbols or ids
	Sources   []string // term source catalogs, e.g., GO:BP, KEGG
	Threshold float64  // significance threshold, 0 means 0.05
}

// Term is one enriched term record, in service ranking order.
type Term struct {
	ID               string   `json:"native"`
	Name             string   `json:"name"`
	Source           string   `json:"source"`
	PValue           float64  `json:"p_value"`
	TermSize         int      `json:"term_size"`
	QuerySize        int      `json:"query_size"`
	IntersectionSize int      `json:"intersection_size"`
	Intersections    []string `json:"intersections"`
}

// profileRequest is the g:GOSt wire format.
type profileRequest struct {
	Organism                    string   `json:"organism"`
	Query                       []string `json:"query"`
	Sources                     []string `json:"sources"`
	UserThreshold               float64  `json:"user_threshold"`
	SignificanceThresholdMethod string   `json:"significance_threshold_method"`
	NoEvidences                 bool     `json:"no_evidences"`
}

type profileResponse struct {
	Result []Term `json:"result"`
}

// Profile runs the enrichment query and returns significant terms in the
// service's order. Every failure mode wraps ErrUnavailable.
func (c *Client) Profile(req Request) ([]Term, error) {
	if len(req.Query) == 0 {
		return nil, fmt.Errorf("empty gene list")
	}
	if req.Organism == "" {
		req.Organism = "hsapiens"
	}
	if req.Threshold == 0 {
		req.Threshold = 0.05
	}
	if len(req.Sources) == 0 {
		req.Sources = []string{"GO:BP", "KEGG"}
	}

	body, err := json.Marshal(profileRequest{
		Organism:                    req.Organism,
		Query:                       req.Query,
		Sources:                     req.Sources,
		UserThreshold:               req.Threshold,
		SignificanceThresholdMethod: "fdr",
		NoEvidences:                 false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode profile request: %w", err)
	}

	url := c.baseURL + "/api/gost/profile/"
	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(msg))
	}

	var decoded profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return decoded.Result, nil
}

// FilterRootTerms drops catalog root terms and similar technical artifacts
// that carry no biological signal.
func FilterRootTerms(terms []Term) []Term {
	kept := make([]Term, 0, len(terms))
	for _, term := range terms {
		if isRootTerm(term.Name) {
			continue
		}
		kept = append(kept, term)
	}
	return kept
}

func isRootTerm(name string) bool {
	switch strings.ToLower(name) {
	case "root", "kegg root term",
		"biological_process", "molecular_function", "cellular_component":
		return true
	}
	return false
}
