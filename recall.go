// Package recall provides a local-first personal knowledge cache. Users save
// URLs or pasted text, the system extracts and chunks the content, embeds it,
// and later answers natural-language questions by retrieving relevant chunks
// and synthesizing a grounded, cited answer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, trafilatura/) or
// their concern (retrieve/, answer/, ingest/).
package recall
