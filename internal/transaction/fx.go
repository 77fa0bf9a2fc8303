package transaction

import (
	"github.com/smallbiznis/arot/internal/receiptno"
	"github.com/smallbiznis/arot/internal/transaction/domain"
	"github.com/smallbiznis/arot/internal/transaction/repository"
	"github.com/smallbiznis/arot/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(a *receiptno.Allocator) domain.ReceiptAllocator { return a }),
	fx.Provide(service.New),
)
