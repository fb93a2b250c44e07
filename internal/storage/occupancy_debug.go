//go:build dyndebug

package storage

import (
	"github.com/wippyai/dyntype/errors"
)

type occupancy struct {
	stored bool
}

func (o *occupancy) put() {
	if o.stored {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "put into occupied union")
	}
	o.stored = true
}

func (o *occupancy) check() {
	if !o.stored {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "access to empty union")
	}
}

func (o *occupancy) take() {
	o.check()
	o.stored = false
}

func (o *occupancy) release() {
	if o.stored {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "release of occupied union")
	}
}

func (o *occupancy) occupied() bool {
	return o.stored
}

func (o *occupancy) moveFrom(src *occupancy) {
	if o.stored {
		errors.Violation(errors.PhaseBuild, errors.KindContract, "move into occupied union")
	}
	o.stored = src.stored
	src.stored = false
}
