// Package server provides HTTP routing, middleware, and handlers for the vkdrive backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, so registered
// patterns get method matching and path wildcards for free.
//
// # Authentication
//
// [Authenticator] resolves bearer tokens to users and attaches them to the
// request context. Tokens are verified as JWTs with a sessions table
// fallback; handlers read the user with [UserFromContext]. The admin
// endpoint group is wrapped with [RequireAdmin] via [Wrap].
//
// # Endpoint Groups
//
//   - [AuthHandler] : registration, login, logout, profile and the encrypted provider token store
//   - [UsersHandler] : admin panel user listing, account management and session revocation
//   - [OAuthHandler] : one-shot provider authorization callbacks for CLI flows
//
// # OAuth Callback Handler
//
// When the user runs authorization commands, a temporary HTTP server starts on
// localhost:3000, handles the provider callback, and shuts down after the
// access token arrives. VK's implicit flow delivers tokens in the URL
// fragment, so the handler first serves a page that bounces the fragment
// into query parameters; Yandex authorization codes are exchanged server
// side. The handler only processes one callback to prevent replay attacks.
package server
