package chi

import (
	"time"

	"github.com/kailas-cloud/crmsearch/internal/domain/dashboard"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/crmsearch/internal/usecase/health"
)

// ErrorCode is the machine-readable error identifier returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthenticated  ErrorCode = "unauthenticated"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResultItem is one ranked search hit.
type SearchResultItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	Category    category.Category `json:"category"`
	SubCategory string            `json:"subCategory,omitempty"`
	Icon        string            `json:"icon"`
	Metadata    result.Metadata   `json:"metadata,omitempty"`
	Locked      bool              `json:"locked,omitempty"`
	LockMessage string            `json:"lockMessage,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query      string                    `json:"query"`
	Results    []SearchResultItem        `json:"results"`
	TotalCount int                       `json:"totalCount"`
	Categories map[category.Category]int `json:"categories"`
}

// DashboardSummaryResponse is the body of GET /dashboard/summary.
type DashboardSummaryResponse struct {
	Success      bool              `json:"success"`
	Data         dashboard.Payload `json:"data"`
	Source       dashboard.Source  `json:"source"`
	ResponseTime int64             `json:"responseTime"`
	Timestamp    time.Time         `json:"timestamp"`
}

// HealthResponse is the body of GET /dashboard/health.
type HealthResponse struct {
	Status    healthuc.Status `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Timestamp time.Time       `json:"timestamp"`
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	return SearchResultItem{
		ID:          r.ID(),
		Title:       r.Title(),
		Subtitle:    r.Subtitle(),
		Description: r.Description(),
		URL:         r.URL(),
		Category:    r.Category(),
		SubCategory: r.SubCategory(),
		Icon:        r.Icon(),
		Metadata:    r.Metadata(),
		Locked:      r.Locked(),
		LockMessage: r.LockMessage(),
	}
}

func searchResponseToDTO(resp *result.Response) SearchResponse {
	results := resp.Results()
	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(&results[i])
	}
	return SearchResponse{
		Query:      resp.Query(),
		Results:    items,
		TotalCount: resp.TotalCount(),
		Categories: resp.Categories(),
	}
}

func summaryToDTO(s dashboard.Summary) DashboardSummaryResponse {
	return DashboardSummaryResponse{
		Success:      true,
		Data:         s.Data,
		Source:       s.Source,
		ResponseTime: s.ResponseTime.Milliseconds(),
		Timestamp:    s.Timestamp.UTC(),
	}
}
