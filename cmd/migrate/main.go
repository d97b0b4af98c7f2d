package main

import (
	"context"
	"flag"
	"fmt"
	"time"
	mongoMigration "villa/internal/migrations/mongo"
	"villa/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", false, "seed the default room type, rooms and meal plans")
	timeout := flag.Duration("timeout", 120*time.Second, "overall migration deadline")
	flag.Parse()

	cfg := config.Load(JobName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Mongo migration job", "seed", *seed)
	err := run(cfg, *seed, *timeout)
	cfg.GracefulShutdown()
	if err != nil {
		cfg.Log.Fatal("Migration job failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}

func run(cfg *config.Config, seed bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		return err
	}
	if !seed {
		return nil
	}

	roomTypeID, err := mongoMigration.Seed(ctx, db, cfg.Log)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	cfg.Log.Info("Catalog seeded", "room_type_id", roomTypeID)
	return nil
}
