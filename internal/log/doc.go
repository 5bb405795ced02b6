// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard slog
// package.
//
// Crawling authenticated applications means session cookies, CSRF tokens,
// and Authorization headers pass through every component. The SecureHandler
// masks those values before they reach the log output, so crawl logs can be
// attached to engagement reports without leaking credentials:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (JWTs, bearer and basic
//     auth values, private key material)
//   - Session identifiers and authentication tokens
//
// Even in verbose mode, sensitive values are masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("page fetched",
//	    "cookie", "session=abc123",  // Will be masked
//	    "url", "https://shop.example/cart",
//	)
//
//	slog.SetDefault(logger)
package log
