package app

import (
	"github.com/wavekit/wavegraph/internal/registry"
	"github.com/wavekit/wavegraph/modules/effects"
	"github.com/wavekit/wavegraph/modules/routing"
	"github.com/wavekit/wavegraph/modules/sources"
)

// coreModules is the definitive list of kind-handler modules compiled into
// the binary.
var coreModules = []registry.Module{
	&sources.Module{},
	&effects.Module{},
	&routing.Module{},
}
