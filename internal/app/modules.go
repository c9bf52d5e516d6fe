package app

import (
	"io"

	"github.com/specialistvlad/formgrid/internal/registry"
	"github.com/specialistvlad/formgrid/modules/fieldmatch"
	"github.com/specialistvlad/formgrid/modules/httpsubmit"
	"github.com/specialistvlad/formgrid/modules/print"
	"github.com/specialistvlad/formgrid/modules/remotecheck"
)

// coreModules is the definitive list of all modules that are compiled into
// the formgrid binary.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&fieldmatch.Module{},
		&remotecheck.Module{},
		&print.Module{Out: outW},
		&httpsubmit.Module{},
	}
}
