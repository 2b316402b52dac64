// Package contacts implements persistence for the trusted contact list.
//
// The FileRepository stores and loads contacts as YAML on disk and exposes a
// Repository interface that the orchestrator service depends on. A missing
// file is not an error: a user who has not registered contacts simply has an
// empty list, and the dispatch step reports that at send time.
package contacts
