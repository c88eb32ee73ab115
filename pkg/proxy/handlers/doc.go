// Package handlers provides the HTTP endpoint handlers of the explanation API.
//
// # Endpoints
//
//   - POST /estimate: token and cost estimate, no provider call
//   - POST /explain: explanations from both providers
//   - GET /budget: spend ledger status
//   - GET /health: liveness probe
//
// # Request Flow
//
//  1. Decode the JSON body (400 invalid-json on failure)
//  2. Hand the code to the orchestrator
//  3. Map validation and budget rejections to 400
//  4. Write the JSON response
//
// A provider failure does not fail an explain request. Its slot in the
// response carries "Error getting GPT-4 explanation: ..." (or the Claude
// equivalent) and the tagged results entry has status "error". The raw
// provider response body appears only in the results entry's error message:
//
//	{
//	  "gpt_explanation": "This function adds two numbers...",
//	  "claude_explanation": "Error getting Claude explanation: provider \"anthropic\" authentication failed (status 401)",
//	  "usage": {"input_tokens": 12, "output_tokens": 48, "cost": 0.003276},
//	  "results": {
//	    "openai": {"status": "ok", "explanation": "...", "output_tokens": 48, "cost": 0.00324},
//	    "anthropic": {"status": "error", "output_tokens": 0, "cost": 0.000036,
//	                  "error": {"kind": "auth", "status_code": 401, "message": "..."}}
//	  }
//	}
package handlers
