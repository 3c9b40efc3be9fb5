package models

// Requests for the dashboard HTTP endpoints.

type UpdateQueryRequest struct {
	Field string `json:"field" validate:"required,oneof=tickerSymbol trendSearchTerm dateRange"`
	Value string `json:"value" validate:"max=128"`
}

type SubmitRequest struct {
	Refresh bool `json:"refresh" default:"false"`
}

// QueryResponse is the query being edited plus its derived flags.
type QueryResponse struct {
	Query QueryState `json:"query"`
	Flags Flags      `json:"flags"`
}

func NewQueryResponse(q QueryState) QueryResponse {
	return QueryResponse{Query: q, Flags: q.Flags()}
}
