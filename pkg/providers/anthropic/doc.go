// Package anthropic implements the Anthropic Messages API adapter.
//
// The client sends the explanation prompt to POST {base}/v1/messages with the
// x-api-key and anthropic-version headers. The explanation is the
// concatenation of all text content blocks in the response.
//
// # Basic Usage
//
//	client, err := anthropic.NewClient(providers.Config{
//	    Name:   "anthropic",
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := client.Explain(ctx, "print('hello')", 400)
package anthropic
