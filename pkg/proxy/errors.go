package proxy

import (
	"errors"
	"net/http"

	"parallax-hq/explainer/pkg/explain"
	"parallax-hq/explainer/pkg/limits/budget"
	"parallax-hq/explainer/pkg/proxy/types"
)

// HandleError converts an error into a status code and response body.
//
// Example usage:
//
//	if err != nil {
//	    status, resp := HandleError(err)
//	    WriteErrorResponse(w, status, resp)
//	    return
//	}
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status, reqErr.ToErrorResponse()
	}

	var valErr *explain.ValidationError
	if errors.As(err, &valErr) {
		// The bare message keeps the original {"error": "No code provided"} body.
		return http.StatusBadRequest, types.NewErrorResponse(valErr.Message, string(valErr.Reason))
	}

	var rejection *budget.RejectionError
	if errors.As(err, &rejection) {
		return http.StatusBadRequest, rejectionResponse(rejection)
	}

	return http.StatusInternalServerError, types.NewErrorResponse(
		"An internal error occurred. Please try again later.",
		types.ReasonInternal,
	)
}

func rejectionResponse(e *budget.RejectionError) *types.ErrorResponse {
	limit, actual := e.Limit, e.Actual
	resp := &types.ErrorResponse{
		Error:  e.Error(),
		Reason: string(e.Reason),
		Limit:  &limit,
		Actual: &actual,
	}

	if e.Estimate.InputTokens > 0 {
		inputTokens := e.Estimate.InputTokens
		cost := e.Estimate.TotalCost
		resp.InputTokens = &inputTokens
		resp.EstimatedCost = &cost
	}

	return resp
}
