// Package workers contains background workers for the download domain
package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("download-workers",
	fx.Provide(NewRequestConsumer),
	fx.Invoke(registerRequestConsumerLifecycle),
)

// registerRequestConsumerLifecycle registers request consumer lifecycle hooks
func registerRequestConsumerLifecycle(lc fx.Lifecycle, consumer *RequestConsumer) {
	if consumer == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
