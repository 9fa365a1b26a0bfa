// Package web implements an HTMX-based admin panel and transfer UI mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the photo transfer workflow and exposes the admin
// endpoints using server-side rendering with HTMX for dynamic updates. Each
// view corresponds to a template and handler:
//
//  1. Photo Grid: Server-rendered grid of VK profile photos with checkboxes
//  2. Transfer Confirm: Modal confirmation with hx-post trigger
//  3. Progress Monitor: SSE (Server-Sent Events) streaming progress updates
//  4. Results Display: Final status with uploaded/failed breakdown
//  5. Admin Panel: User table with role, activation and session controls
//
// Core Components
//
//   - HTTP Server: reuses server.BasicRouter and the existing middleware stack
//   - Service Integration: Uses the same services.VKService, services.DiskService and tasks.TransferEngine as the TUI
//   - Session Management: Cookie-based sessions carrying the backend JWT
//   - SSE Handler: Streams real-time progress during transfers
//
// Routes
//
//	GET  /                       → Photo grid view (requires auth)
//	GET  /login                  → Login form posting to /api/auth/login
//	GET  /connect/{provider}     → OAuth initiation (vk or yandex)
//	GET  /callback               → OAuth completion, stores token via token endpoint
//	POST /transfer               → Start transfer, return SSE endpoint
//	GET  /transfer/{id}/stream   → SSE progress stream
//	GET  /transfer/{id}/result   → Final result view
//	GET  /admin                  → User table backed by /api/admin/users
//	GET  /admin/users/{id}       → HTMX partial: user detail with sessions
//
// Templates
//
//   - base.html: Layout with navigation, auth status
//   - photos.html: Grid with hx-post on the selection form
//   - progress.html: SSE consumer with progress bar
//   - results.html: Uploaded/failed breakdown with pending retry button
//   - admin.html: User table with hx-patch on role and activation toggles
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: Backend JWT, user ID
//   - Pending batches: tasks.Batch snapshots keyed by transfer ID for retry
//   - In-memory channels: SSE connections for active transfers
//
// # Progress Streaming
//
// Transfer progress uses Server-Sent Events:
//  1. POST /transfer snapshots the batch, returns transfer ID
//  2. Client opens SSE connection to /transfer/{id}/stream
//  3. Handler launches goroutine running TransferEngine.Run
//  4. Progress channel updates stream as SSE events
//  5. On completion, send "done" event with redirect URL
//
// Authentication Flow
//
//  1. User visits /, redirected to /login if not authenticated
//  2. Login form posts to the existing /api/auth/login endpoint
//  3. Session middleware validates the JWT on protected routes
//  4. Missing provider tokens redirect to /connect/{provider}
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server and SSE
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup reusing server.BasicRouter registration
//  2. Template structure with HTMX integration
//  3. Session middleware bridging cookies to the Authenticator
//  4. Photo grid handler with VK service integration
//  5. Transfer endpoint snapshotting the selected batch
//  6. SSE handler streaming tasks.ProgressUpdate events
//  7. Result handler rendering tasks.TransferResult
//  8. Retry endpoint rebuilding a batch from the pending set
//  9. Admin table handlers wrapping the existing admin endpoints
//  10. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock the photo source and uploader for transfer flows
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
