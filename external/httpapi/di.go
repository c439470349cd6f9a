package httpapi

import (
	"github.com/samber/do/v2"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/config"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/conversation"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/news"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*news.Service, error) {
		st := do.MustInvoke[store.Store](i)
		return news.NewService(st), nil
	})
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := do.MustInvoke[*conversation.Manager](i)
		registry := do.MustInvoke[*language.Registry](i)
		newsService := do.MustInvoke[*news.Service](i)
		return NewServer(manager, registry, newsService, cfg.DefaultLanguage), nil
	})
}
