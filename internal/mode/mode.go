// Package mode defines application modes and the shared services injected
// into mode controllers.
package mode

import (
	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/cachemanager"
	"github.com/mergington/enroll/internal/config"
	"github.com/mergington/enroll/internal/flags"
	"github.com/mergington/enroll/internal/mode/shared"
)

// AppMode identifies the current application mode.
type AppMode int

const (
	ModeRoster AppMode = iota
)

// Services contains shared dependencies injected into mode controllers.
type Services struct {
	Client      *api.Client
	Config      *config.Config
	ConfigPath  string
	Flags       *flags.Registry
	RenderCache cachemanager.CacheManager[string, string]
	Clock       shared.Clock
}

// ToastStyle selects the toast presentation variant.
type ToastStyle int

const (
	ToastSuccess ToastStyle = iota
	ToastError
	ToastInfo
)

// ShowToastMsg requests a toast notification at the app level.
type ShowToastMsg struct {
	Message string
	Style   ToastStyle
}
