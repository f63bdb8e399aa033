// Package repository holds the in-memory game state and the backends it is
// flushed to.
//
// Store is the single serialization point for Users, Tiles and Quizzes. Every
// check-and-mutate sequence must be expressed as one Update closure; reads that
// span two calls are not atomic with respect to each other.
//
// Backends persist the JSON document as opaque bytes:
//
//   - FileBackend writes a local JSON file atomically
//   - R2Backend stores one object in a Cloudflare R2 (S3-compatible) bucket
//   - PostgresBackend keeps the document as a JSONB row through gorm
package repository
