package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/lalith-99/skillswap/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix    = "skillswap:"
	roomChannelStem  = channelPrefix + "room:"
	broadcastChannel = channelPrefix + "broadcast"
	revokeChannel    = channelPrefix + "revoke"
)

func roomChannel(msg models.RoomMessage) string {
	return roomChannelStem + msg.RoomID.String()
}

// LocalPublisher delivers events to the hub of this process only.
type LocalPublisher struct {
	hub    *Hub
	logger *zap.Logger
}

func NewLocalPublisher(hub *Hub, logger *zap.Logger) *LocalPublisher {
	return &LocalPublisher{hub: hub, logger: logger}
}

func (p *LocalPublisher) PublishRoomMessage(_ context.Context, msg models.RoomMessage) {
	ev, err := NewRoomMessageEvent(msg)
	if err != nil {
		p.logger.Error("build room message event", zap.Error(err))
		return
	}
	p.hub.Deliver(ev)
}

func (p *LocalPublisher) PublishBroadcast(_ context.Context, msg models.PlatformMessage) {
	ev, err := NewBroadcastEvent(msg)
	if err != nil {
		p.logger.Error("build broadcast event", zap.Error(err))
		return
	}
	p.hub.Deliver(ev)
}

func (p *LocalPublisher) PublishRevocation(_ context.Context, rev models.AccessRevocation) {
	ev, err := NewRevocationEvent(rev)
	if err != nil {
		p.logger.Error("build revocation event", zap.Error(err))
		return
	}
	p.hub.Deliver(ev)
}

// RedisPublisher fans events out through Redis pub/sub. Every instance runs
// Relay to copy what arrives on the skillswap channels into its own hub, so
// the publishing instance hears its own events the same way as the others.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

func (p *RedisPublisher) PublishRoomMessage(ctx context.Context, msg models.RoomMessage) {
	ev, err := NewRoomMessageEvent(msg)
	if err != nil {
		p.logger.Error("build room message event", zap.Error(err))
		return
	}
	p.publish(ctx, roomChannel(msg), ev)
}

func (p *RedisPublisher) PublishBroadcast(ctx context.Context, msg models.PlatformMessage) {
	ev, err := NewBroadcastEvent(msg)
	if err != nil {
		p.logger.Error("build broadcast event", zap.Error(err))
		return
	}
	p.publish(ctx, broadcastChannel, ev)
}

func (p *RedisPublisher) PublishRevocation(ctx context.Context, rev models.AccessRevocation) {
	ev, err := NewRevocationEvent(rev)
	if err != nil {
		p.logger.Error("build revocation event", zap.Error(err))
		return
	}
	p.publish(ctx, revokeChannel, ev)
}

// publish never fails the caller: the message is already committed and can
// be fetched over HTTP.
func (p *RedisPublisher) publish(ctx context.Context, channel string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("marshal realtime event", zap.Error(err))
		return
	}
	// The request context may be cancelled as soon as the handler returns.
	ctx = context.WithoutCancel(ctx)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.logger.Warn("redis publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

// Relay subscribes to every skillswap channel and delivers what arrives to
// hub until ctx is cancelled.
func (p *RedisPublisher) Relay(ctx context.Context, hub *Hub) error {
	sub := p.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	p.logger.Info("realtime relay subscribed", zap.String("pattern", channelPrefix+"*"))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis subscription closed")
			}
			if !strings.HasPrefix(msg.Channel, channelPrefix) {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				p.logger.Warn("dropping malformed realtime event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			hub.Deliver(ev)
		}
	}
}
