package speech

import (
	"github.com/samber/do/v2"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/config"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"
	internalspeech "github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalspeech.Backend, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.SynthesisConfigured() {
			// Absent or placeholder key: the client returns nil clips
			// without any network call.
			return nil, nil
		}
		return NewElevenLabsBackend(c.ElevenLabsBaseURL, c.ElevenLabsAPIKey), nil
	})
	do.Provide(injector, func(i do.Injector) (*internalspeech.Client, error) {
		registry := do.MustInvoke[*language.Registry](i)
		backend := do.MustInvoke[internalspeech.Backend](i)
		return internalspeech.NewClient(registry, backend), nil
	})
}
