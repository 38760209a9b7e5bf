// Package tracing keeps one opentracing tracer per service. The tracers are
// configured from the standard JAEGER_* environment variables.
package tracing

import (
	"io"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"golang.org/x/xerrors"
)

const (
	// ContractTag is the span tag holding the name of the executed contract.
	ContractTag = "contract"

	// TransactionTag is the span tag holding the hex identifier of the
	// transaction.
	TransactionTag = "transaction"

	// AcceptedTag is the span tag holding the outcome of the execution.
	AcceptedTag = "accepted"
)

type tracerCatalog struct {
	sync.Mutex
	tracers map[string]closableTracer
}

type closableTracer struct {
	tracer opentracing.Tracer
	closer io.Closer
}

var catalog = tracerCatalog{
	tracers: make(map[string]closableTracer),
}

// GetTracer returns the tracer of the service. Tracers are cached, so that
// the same instance is returned for every call with the same name.
func GetTracer(service string) (opentracing.Tracer, error) {
	catalog.Lock()
	defer catalog.Unlock()

	tc, ok := catalog.tracers[service]
	if ok {
		return tc.tracer, nil
	}

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, xerrors.Errorf("failed to parse jaeger configuration: %v", err)
	}

	cfg.ServiceName = service

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, xerrors.Errorf("failed to create tracer: %v", err)
	}

	catalog.tracers[service] = closableTracer{
		tracer: tracer,
		closer: closer,
	}

	return tracer, nil
}

// CloseAll flushes and closes every tracer of the catalog.
func CloseAll() error {
	catalog.Lock()
	defer catalog.Unlock()

	for service, tc := range catalog.tracers {
		err := tc.closer.Close()
		if err != nil {
			return xerrors.Errorf("failed to close tracer '%s': %v", service, err)
		}

		delete(catalog.tracers, service)
	}

	return nil
}
