// Package sanitizer normalizes user supplied text before validation and storage.
//
// Every function is idempotent and never fails: invalid input collapses to an
// empty string so that the validator reports it as missing.
package sanitizer
