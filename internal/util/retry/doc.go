// Package retry provides the two retry shapes used when talking to the
// proxy node: bounded exponential backoff for dialing, and unbounded
// fixed-interval polling for waiting until the proxy answers at all.
package retry
