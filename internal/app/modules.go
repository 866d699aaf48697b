package app

import (
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/modules/loginform"
	"github.com/specialistvlad/behaviorkit/modules/print"
)

// coreModules is the definitive list of all modules that are compiled into
// the behaviorkit binary.
var coreModules = []registry.Module{
	&print.Module{},
	&loginform.Module{},
}
