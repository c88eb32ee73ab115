// Package openai implements the OpenAI chat completions adapter.
//
// The client sends the explanation prompt as a system and a user message to
// POST {base}/v1/chat/completions, authenticating with a bearer token, and
// reads the explanation from choices[0].message.content.
//
// # Basic Usage
//
//	client, err := openai.NewClient(providers.Config{
//	    Name:   "openai",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := client.Explain(ctx, "print('hello')", 400)
package openai
