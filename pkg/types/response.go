package types

import "github.com/luxenest/luxenest-backend/pkg/pagination"

// SuccessEnvelope is the JSON shape for every successful response.
type SuccessEnvelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// ErrorEnvelope is the JSON shape for every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
