package audio

import (
	"github.com/samber/do/v2"
	internalaudio "github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalaudio.Device, error) {
		return NewSilentDevice(), nil
	})
	do.ProvideValue(injector, internalaudio.DeviceFactory(func() internalaudio.Device {
		return NewSilentDevice()
	}))
}
