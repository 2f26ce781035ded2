package dto

import (
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/auth"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every response body. Errors is a field-keyed map for
// validation failures and a list of messages otherwise.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Errors any    `json:"errors"`
}

func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Errors: []string{}}
}

func Failure(errors ...string) Envelope {
	if errors == nil {
		errors = []string{}
	}
	return Envelope{Status: StatusError, Errors: errors}
}

func FieldFailure(errs models.FieldErrors) Envelope {
	return Envelope{Status: StatusError, Errors: errs}
}

type AuthResponse struct {
	User   *models.User   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ParameterCheckResponse struct {
	Valid bool `json:"valid"`
}
