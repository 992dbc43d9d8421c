package rule

import (
	"github.com/medirahq/commission/internal/rule/repository"
	"github.com/medirahq/commission/internal/rule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rule",
	fx.Provide(
		repository.New,
		service.New,
	),
)
