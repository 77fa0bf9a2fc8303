package settings

import (
	"github.com/smallbiznis/arot/internal/settings/domain"
	"github.com/smallbiznis/arot/internal/settings/service"
	"github.com/smallbiznis/arot/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.ProvideStore[domain.Settings]),
	fx.Provide(service.New),
)
