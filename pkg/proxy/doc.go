// Package proxy holds the HTTP plumbing shared by the API handlers: request
// body decoding, JSON response writing, and the mapping from domain errors
// to HTTP status codes.
//
// # Error Mapping
//
//   - *RequestError (malformed JSON, oversize body): 400 or 413
//   - *explain.ValidationError (missing code): 400
//   - *budget.RejectionError (cost, length, monthly budget): 400
//   - anything else: 500 with a generic message
//
// Provider failures never reach HandleError; they are part of a successful
// explain response.
package proxy
