// Package server exposes user registration and the authenticated user API
// over HTTP.
//
// # Endpoints
//
//	GET  /health            200 "OK" while the process is up
//	GET  /health/ready      200 when the store answers a ping, else 503
//	POST /api/user/sign-up  register {email, public_key}; 201 with the user
//	                        a signed request records the caller as the audit actor
//	GET  /api/user          the caller's stored record (signed token required)
//
// Sign-up binds a fresh UUID to the submitted Dilithium3 public key. The
// client signs tokens for that UUID with its private key, which never leaves
// the client.
//
// # Lifecycle
//
//	srv, err := server.New(cfg, logger)
//	err = srv.Run(ctx) // blocks until ctx is canceled, then shuts down
package server
