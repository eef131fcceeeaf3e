package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/muchos/internal/ui"
)

// Transport names accepted by --transport.
const (
	TransportShell  = "shell"
	TransportNative = "native"
)

// Options carries the global flags.
type Options struct {
	// Home holds conf/ and receives ansible/.
	Home string

	// Cluster selects conf/hosts/<Cluster>.
	Cluster string

	// Transport is TransportShell or TransportNative.
	Transport string

	// IdentityFile is an optional private key for the proxy.
	IdentityFile string

	// MetricsTextfile, if set, receives Prometheus metrics of the run.
	MetricsTextfile string

	// Verbosity is the logr V-level threshold.
	Verbosity int
}

func (o Options) validate() error {
	switch o.Transport {
	case "", TransportShell, TransportNative:
		return nil
	}
	return fmt.Errorf("unknown transport %q: expected %s or %s", o.Transport, TransportShell, TransportNative)
}

// Console streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// newLogger builds the logger used for one command.
var newLogger = func(verbosity int) logr.Logger {
	return ui.NewLogger(stderr, verbosity)
}
