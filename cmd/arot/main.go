package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/arot/internal/clock"
	"github.com/smallbiznis/arot/internal/config"
	"github.com/smallbiznis/arot/internal/migration"
	"github.com/smallbiznis/arot/internal/observability"
	"github.com/smallbiznis/arot/internal/receiptno"
	"github.com/smallbiznis/arot/internal/server"
	"github.com/smallbiznis/arot/internal/settings"
	"github.com/smallbiznis/arot/internal/statement"
	"github.com/smallbiznis/arot/internal/transaction"
	"github.com/smallbiznis/arot/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Weights and rates go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		settings.Module,
		receiptno.Module,
		transaction.Module,
		statement.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
