package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
	"github.com/totegamma/filmpulse/internal/usecase"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, channel string, event filmpulse.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return errors.Wrap(err, "publish event")
	}

	return nil
}

// Realtime relays program events to output until ctx is done. Each value read
// from input replaces the active filter set.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- filmpulse.Event) {
	logger := observability.LoggerFromContext(ctx)

	pubsub := s.rdb.Subscribe(ctx, domain.EventChannel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	var filters []string

	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-input:
			if !ok {
				return
			}
			filters = next
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event filmpulse.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed event")
				continue
			}
			if !MatchEvent(event, filters) {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// MatchEvent reports whether any filter is a prefix of the event type or
// equals one of the addresses the event touched.
func MatchEvent(event filmpulse.Event, filters []string) bool {
	for _, f := range filters {
		if f == "" {
			continue
		}
		if strings.HasPrefix(event.Type, f) || event.Address == f || event.Signer == f {
			return true
		}
	}
	return false
}

var _ usecase.EventPublisher = (*SignalService)(nil)
