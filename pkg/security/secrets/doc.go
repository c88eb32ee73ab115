/*
Package secrets loads provider credentials from environment variables and
secret files.

# Secret Providers

Providers implement SecretProvider and are chained by a Manager in priority
order; the first provider that returns a value wins.

  - EnvProvider: the secret name upper-cased, with an optional prefix
    ("openai_api_key" is read from OPENAI_API_KEY)
  - FileProvider: one file per secret in a directory, such as a container
    secrets mount; files must be 0600 or 0400

# Basic Usage

	fileProvider, _ := secrets.NewFileProvider("/run/secrets", true)
	manager := secrets.NewManager(secrets.NewEnvProvider(""), fileProvider)

	creds, err := manager.ResolveCredentials(ctx, &cfg.Providers)

Credentials are resolved once at startup. When a watched secret file
changes the provider drops its cached value and logs that a restart is
required; running clients keep the key they were built with.
*/
package secrets
