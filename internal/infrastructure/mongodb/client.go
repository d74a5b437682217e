// Package mongodb implementa el repositorio de registros sobre MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/pkg/config"
)

// Client conexión única al clúster, creada en el arranque e inyectada en los repositorios.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewClient conecta y verifica con un ping al primario.
func NewClient(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("conectar a MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return Wrap(client, cfg.Database), nil
}

// Wrap usa un *mongo.Client ya conectado (pruebas de integración).
func Wrap(client *mongo.Client, database string) *Client {
	return &Client{client: client, database: client.Database(database)}
}

// Collection devuelve el handle de una colección.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping verifica la conexión.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close desconecta el cliente.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Factory crea un repositorio por esquema sobre esta conexión.
func (c *Client) Factory() repository.RecordRepositoryFactory {
	return func(schema entity.Schema) (repository.RecordRepository, error) {
		return NewRecordRepository(c, schema), nil
	}
}
