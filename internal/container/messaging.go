package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the typed lifecycle event publishers. When
// events are disabled they discard everything and Redis is never contacted.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client.Client},
			messaging.NewZapLogger(logger.Named("watermill")),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.MappingCreated], error) {
		return publishFunc[events.MappingCreated](i, events.TopicMappingCreated)
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.MappingDeleted], error) {
		return publishFunc[events.MappingDeleted](i, events.TopicMappingDeleted)
	})
}

func publishFunc[T any](i *do.Injector, topic string) (messaging.Publish[T], error) {
	if !do.MustInvoke[*Options](i).Events {
		return messaging.Discard[T](), nil
	}

	group, err := do.Invoke[*messaging.PublisherGroup](i)
	if err != nil {
		return nil, err
	}

	return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
}

// ConsumerOptions configures the event consumer process.
type ConsumerOptions struct {
	RedisAddr     string `default:"localhost:6379" help:"Redis server address"                      short:"r"`
	ConsumerGroup string `default:"shortlink"      help:"Redis stream consumer group"`
	Evict         bool   `default:"false"          help:"Evict cached redirects of deleted mappings"`
	LogFormat     string `default:"json"           help:"Log format: json or console"`
	LogLevel      string `default:"info"           help:"Log level: debug, info, warn or error"`
}

// Options maps the consumer configuration onto the shared options so the
// logger and Redis packages can be reused.
func (c *ConsumerOptions) Options() *Options {
	return &Options{
		RedisAddr:    c.RedisAddr,
		CacheBackend: BackendRedis,
		LogFormat:    c.LogFormat,
		LogLevel:     c.LogLevel,
		Events:       true,
	}
}

// ConsumerGroupPackage provides the consumer group: every event is written to
// the audit log, and deletions evict the cached redirect when enabled.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*ConsumerOptions](i)
		logger := do.MustInvoke[*zap.Logger](i)

		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client.Client,
				ConsumerGroup: opts.ConsumerGroup,
			},
			messaging.NewZapLogger(logger.Named("watermill")),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream subscriber: %w", err)
		}

		audit := events.NewAudit(logger.Named("audit"))
		group := messaging.NewConsumerGroup(subscriber, logger)

		onDeleted := []messaging.Handler[events.MappingDeleted]{audit.MappingDeleted}

		if opts.Evict {
			evictor := events.NewEvictor(store.NewRedisCache(client.Client), logger.Named("evictor"))
			onDeleted = append(onDeleted, evictor.MappingDeleted)
		}

		group.Add(messaging.NewConsumer(subscriber, events.TopicMappingCreated, audit.MappingCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, events.TopicMappingDeleted, messaging.Chain(onDeleted...), logger))

		return group, nil
	})
}
