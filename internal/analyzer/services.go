package analyzer

import (
	"reflect"
)

// ServiceBag holds per-engine services keyed by their static type. Services
// are inserted by the host before the run or by visitors finishing an earlier
// phase (the semantic model is built during Syntax and read during Semantic).
type ServiceBag struct {
	services map[reflect.Type]any
}

func NewServiceBag() *ServiceBag {
	return &ServiceBag{services: make(map[reflect.Type]any)}
}

// Insert stores v under T, replacing any previous value.
func Insert[T any](bag *ServiceBag, v T) {
	bag.services[reflect.TypeFor[T]()] = v
}

// Get returns the service stored under T.
func Get[T any](bag *ServiceBag) (T, bool) {
	if bag != nil {
		if v, ok := bag.services[reflect.TypeFor[T]()]; ok {
			return v.(T), true
		}
	}
	var zero T
	return zero, false
}

// Has reports whether a service of type t is present.
func (b *ServiceBag) Has(t reflect.Type) bool {
	_, ok := b.services[t]
	return ok
}
