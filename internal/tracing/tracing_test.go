package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func restoreGlobal(t *testing.T) {
	prev := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		otel.SetTextMapPropagator(prevProp)
	})
}

// retainingExporter keeps recorded spans across Shutdown.
type retainingExporter struct {
	*tracetest.InMemoryExporter
}

func (retainingExporter) Shutdown(context.Context) error { return nil }

func TestSetup_NoEndpoint(t *testing.T) {
	restoreGlobal(t)
	prev := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), "", "recordshop-be")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, prev, otel.GetTracerProvider())
}

func TestSetup_Endpoint(t *testing.T) {
	restoreGlobal(t)

	shutdown, err := Setup(context.Background(), "http://127.0.0.1:4318", "recordshop-be")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInstall_FlushesOnShutdown(t *testing.T) {
	restoreGlobal(t)
	exp := retainingExporter{tracetest.NewInMemoryExporter()}

	shutdown := Install(exp, "storefront")

	_, span := otel.Tracer("test").Start(context.Background(), "cms.request")
	span.End()

	require.NoError(t, shutdown(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "cms.request", spans[0].Name)

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == attribute.Key("service.name") {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "storefront", service)
}
