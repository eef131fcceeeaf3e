// Package testing provides builders and fixtures shared by unit tests.
//
//   - ConfigBuilder: fluent builder for cluster configurations
//   - FakeTransport: scripted stand-in for the proxy transport
//   - WriteHome: lays out a muchos home directory on disk
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithService("leader2", "fluo").
//	    Build()
package testing
