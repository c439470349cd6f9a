package conversation

import (
	"github.com/samber/do/v2"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		st := do.MustInvoke[store.Store](i)
		guide := do.MustInvoke[*guidance.Client](i)
		sp := do.MustInvoke[*speech.Client](i)
		newDevice := do.MustInvoke[audio.DeviceFactory](i)
		return NewManager(st, guide, sp, newDevice), nil
	})
}
