package cache

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client encapsula o acesso ao Redis usado para estado efêmero:
// snapshot de progresso de sincronização, invalidação do cache agregado
// de estoque e nonces de state do OAuth.
type Client struct {
	rdb *redis.Client
}

func NewClient(ctx context.Context, cfg config.Redis) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetObject lê e desserializa um valor JSON. Retorna found=false quando
// a chave não existe.
func (c *Client) GetObject(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetObject serializa e grava um valor JSON com expiração opcional.
func (c *Client) SetObject(ctx context.Context, key string, obj interface{}, exp time.Duration) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, exp).Err()
}

func (c *Client) SetValue(ctx context.Context, key, value string, exp time.Duration) error {
	return c.rdb.Set(ctx, key, value, exp).Err()
}

// GetDelValue lê e remove a chave atomicamente; usado para valores de
// uso único como o state do OAuth.
func (c *Client) GetDelValue(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
