// Package member is the REST facade of the session demo: a thin CRUD
// surface over the session attribute bag. It establishes sessions, writes a
// fixed three-field member record into the bag, and reads it back, while
// every joined member is also appended to a process-local registry.
package member
