package schema

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"desigo/store"
)

type Config struct {
	Action string `arg:"positional,required" help:"Valid choices: [\"create\", \"drop\"]"`
}

func (Config) Description() string {
	return `Create or drop the reporting tables.
Dropping deletes every stored sample.`
}

func (config *Config) Execute() error {
	ctx := context.Background()

	db, err := store.New(ctx, os.Getenv(store.CONN_ENV_VAR))
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer db.Close()

	switch config.Action {
	case "create":
		err = db.CreateSchema(ctx)
	case "drop":
		err = db.DropSchema(ctx)
	default:
		err = fmt.Errorf("Invalid argument '%s'", config.Action)
	}

	if err != nil {
		slog.Error(err.Error())
	}
	return err
}
