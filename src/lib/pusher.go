package lib

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	if os.Getenv("PUSHER_APP_ID") == "" {
		return nil
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
		Secure:  true,
	}
	return pusherClient
}

type PusherPublisher struct {
	Client *pusher.Client
}

func (p *PusherPublisher) Name() string {
	return "pusher"
}

func (p *PusherPublisher) Publish(ctx context.Context, channel string, event string, payload []byte) error {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return err
	}
	return p.Client.Trigger("private-"+channel, event, data)
}
