package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/medirahq/commission/internal/commission"
	"github.com/medirahq/commission/internal/config"
	"github.com/medirahq/commission/internal/engine"
	"github.com/medirahq/commission/internal/migration"
	"github.com/medirahq/commission/internal/observability"
	"github.com/medirahq/commission/internal/rule"
	"github.com/medirahq/commission/internal/server"
	"github.com/medirahq/commission/internal/transaction"
	"github.com/medirahq/commission/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		rule.Module,
		transaction.Module,
		engine.Module,
		commission.Module,

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
