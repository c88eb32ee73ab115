// Package providers implements the clients that ask external LLM providers
// to explain a snippet of code.
//
// # Overview
//
// Every provider adapter implements Client. A call always ends in a Result:
// either an explanation or a *Failure, never both and never neither. Callers
// do not need to handle errors from Explain because failures are values.
//
// # Architecture
//
//  1. Client interface and Result variant (provider.go)
//  2. Failure classification (errors.go)
//  3. Base HTTP provider with timeout and optional retry (http_provider.go)
//  4. Adapters: openai and anthropic subpackages
//
// # Failure Kinds
//
//   - KindTransport: timeout or connection failure. Retried when MaxRetries > 0.
//   - KindAuth: HTTP 401 or 403.
//   - KindStatus: any other non-2xx status. Carries the status code and raw body.
//   - KindParse: a 2xx body that does not match the success schema.
//
// # Basic Usage
//
//	client, err := openai.NewClient(providers.Config{
//	    Name:    "openai",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	    Timeout: 10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := client.Explain(ctx, code, 4000)
//	if result.Err != nil {
//	    log.Printf("explain failed: %v", result.Err)
//	}
//	fmt.Println(result.Explanation)
//
// # Thread Safety
//
// Clients are safe for concurrent use. They hold no per-request state.
package providers
