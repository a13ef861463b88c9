package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

type ConnectionInfo struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewConnection returns a client that has answered one PING.
func NewConnection(ctx context.Context, info ConnectionInfo) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     info.Host + ":" + info.Port,
		Password: info.Password,
		DB:       info.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
