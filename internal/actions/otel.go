package actions

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/awbwapp/replay/internal/actions"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
