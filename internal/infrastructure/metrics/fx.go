package metrics

import "go.uber.org/fx"

// Module provides the metrics singleton for fx dependency injection
var Module = fx.Module("metrics",
	fx.Provide(GetDefaultMetrics),
)
