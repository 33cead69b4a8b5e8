package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/container"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *container.ConsumerOptions) {
		injector := do.New()
		do.ProvideValue(injector, opts)
		do.ProvideValue(injector, opts.Options())
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.ConsumerGroupPackage(injector)

		logger, err := do.Invoke[*zap.Logger](injector)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			group, err := do.Invoke[*messaging.ConsumerGroup](injector)
			if err != nil {
				logger.Fatal("failed to create consumer group", zap.Error(err))
			}

			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			logger.Info("consumer running",
				zap.String("consumer_group", opts.ConsumerGroup),
				zap.Bool("evict", opts.Evict),
			)

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			if err := injector.Shutdown(); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Run()
}
