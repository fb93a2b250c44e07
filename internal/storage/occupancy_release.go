//go:build !dyndebug

package storage

type occupancy struct{}

func (o *occupancy) put()                {}
func (o *occupancy) check()              {}
func (o *occupancy) take()               {}
func (o *occupancy) release()            {}
func (o *occupancy) occupied() bool      { return false }
func (o *occupancy) moveFrom(*occupancy) {}
