// Package module is the contract the API composition root relies on, and
// the lookup that pulls one port out of another module's port set
package module

import (
	"fmt"
	"reflect"

	phttp "adwarden/internal/platform/net/http"
)

// Module is anything the composition root can mount. Engine modules mount
// nothing and exist for their ports
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}

// PortsOf returns m's port set when it is a T, or else the first exported
// field of the port set struct that is a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if v, ok := p.(T); ok {
		return v, true
	}

	rv := reflect.Indirect(reflect.ValueOf(p))
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for startup wiring, where a missing port is a bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s: no %s port", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}
