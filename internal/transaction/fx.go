package transaction

import (
	"github.com/medirahq/commission/internal/transaction/repository"
	"github.com/medirahq/commission/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction",
	fx.Provide(
		repository.New,
		service.New,
	),
)
