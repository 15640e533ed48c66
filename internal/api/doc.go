// Package api wraps every backend REST call the console makes.
//
// The Client normalizes success and failure into one shape: JSON bodies
// decode into typed DTOs, non-success statuses become *StatusError carrying
// the server-supplied detail plus the raw body, and transport failures become
// *StatusError with status zero wrapping the underlying cause. Callers branch
// on status and body, never on message text.
//
// After a successful mutation the client schedules a refresh of whichever
// screens the declarative rule table associates with the endpoint family,
// delayed slightly to tolerate backend eventual consistency. Refresh
// triggering is best effort: it runs only on success and never propagates
// its own errors.
package api
