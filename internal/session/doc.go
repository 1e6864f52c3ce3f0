// Package session drives generation rounds over the engine and serves them to
// the HTTP layer:
//
//   - session.go: Session owns one context and a sampler state; Stream
//     tokenizes, evaluates, samples and detokenizes with batched callbacks.
//   - utf8.go: reassembles token pieces into complete UTF-8 text.
//   - service.go: Service resolves registry models, caches loaded handles and
//     implements the httpapi.Service interface.
//   - admission.go: per-model queue and in-flight slots.
//   - errors.go: error types mapped to HTTP statuses.
package session
