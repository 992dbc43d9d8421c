package engine

import (
	"github.com/medirahq/commission/internal/engine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("engine",
	fx.Provide(service.New),
)
