package db

import (
	"context"

	"cribhub/internal/config"
	"cribhub/internal/repository"
)

// Store bundles the repositories of the selected backend.
type Store struct {
	Users repository.UserRepository
	Cribs repository.CribRepository

	close func(ctx context.Context) error
}

// Close releases the backend connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects to the backend named by cfg.StoreDriver, prepares its schema and
// returns the repositories bound to it.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.StoreDriver == "mongo" || cfg.StoreDriver == "mongodb" {
		client, database, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := MigrateMongo(ctx, database, cfg.ResetDB); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Users: repository.NewMongoUserRepository(database),
			Cribs: repository.NewMongoCribRepository(database),
			close: client.Disconnect,
		}, nil
	}

	gormDB, err := Open(cfg.StoreDriver, cfg.DatabaseDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := Migrate(gormDB, cfg.ResetDB); err != nil {
		_ = Close(gormDB)
		return nil, err
	}
	return &Store{
		Users: repository.NewUserRepository(gormDB),
		Cribs: repository.NewCribRepository(gormDB),
		close: func(context.Context) error { return Close(gormDB) },
	}, nil
}
