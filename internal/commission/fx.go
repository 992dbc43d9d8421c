package commission

import (
	"github.com/medirahq/commission/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission",
	fx.Provide(service.New),
)
