/*
Package tls provides TLS termination for the parallax HTTP server.

The server certificate is served through a CertificateReloader, which loads
the PEM pair at startup and reloads it when either file changes on disk, so
renewed certificates take effect without a restart:

	reloader, err := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return err
	}
	if err := reloader.Watch(); err != nil {
		return err
	}
	defer reloader.Close()

	srv.TLSConfig = tls.NewServerConfig(&cfg, reloader)

The parent directories are watched rather than the files themselves, which
also covers secret mounts that swap a symlink instead of rewriting in place.
A reload that fails keeps the previous certificate.
*/
package tls
