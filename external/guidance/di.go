package guidance

import (
	"github.com/samber/do/v2"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/config"
	internalguidance "github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalguidance.Generator, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.GuidanceConfigured() {
			// Absent or placeholder key: the client falls back without
			// any network call.
			return nil, nil
		}
		return NewGeminiGenerator(GeminiConfig{
			APIKey: c.GeminiAPIKey,
			Model:  c.GeminiModel,
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (*internalguidance.Client, error) {
		gen := do.MustInvoke[internalguidance.Generator](i)
		return internalguidance.NewClient(gen), nil
	})
}
