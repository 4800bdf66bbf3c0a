// Package middleware groups the Fiber handlers that run before every feature route.
//
// Subpackages:
//
//   - rayid: tags each request with an X-Ray-ID, reusing a caller supplied one,
//     and stores it in locals so logger.WithRayID can attach it to log lines.
//   - auth: rejects requests without a matching X-API-Key. Paths listed as public
//     (swagger, metrics) pass through. An empty key disables the check.
//
// Register rayid first so rejected requests are traced too.
package middleware
