// Package container is a very small DI container using constructor
// injection: register constructor functions, resolve by type. Everything
// is a singleton; the application has no per-request components worth
// scoping. Centralizes wiring without external deps.
package container

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

type Container struct {
	mu        sync.Mutex
	providers map[reflect.Type]reflect.Value
	built     map[reflect.Type]reflect.Value
}

func New() *Container {
	return &Container{
		providers: make(map[reflect.Type]reflect.Value),
		built:     make(map[reflect.Type]reflect.Value),
	}
}

// Provide registers a constructor for the type of its first return value.
// Constructor parameters are resolved from the container; it may return
// (T) or (T, error).
func (c *Container) Provide(constructor interface{}) error {
	v := reflect.ValueOf(constructor)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: constructor must be a function")
	}
	ft := v.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 {
		return fmt.Errorf("container: constructor must return (T) or (T, error)")
	}
	if ft.NumOut() == 2 && ft.Out(1) != errType {
		return fmt.Errorf("container: second return value must be error")
	}
	out := ft.Out(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.providers[out]; dup {
		return fmt.Errorf("container: provider already registered for %v", out)
	}
	c.providers[out] = v
	return nil
}

// Resolve populates the given pointer with an instance of the requested
// type. Example: var db *database.DB; c.Resolve(&db)
func (c *Container) Resolve(target interface{}) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("container: target must be a non-nil pointer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	val, err := c.build(ptr.Elem().Type(), nil)
	if err != nil {
		return err
	}
	ptr.Elem().Set(val)
	return nil
}

func (c *Container) build(t reflect.Type, path []reflect.Type) (reflect.Value, error) {
	if v, ok := c.built[t]; ok {
		return v, nil
	}
	ctor, ok := c.providers[t]
	if !ok && t.Kind() == reflect.Interface {
		// fall back to a provider whose concrete type satisfies the interface
		for pt, p := range c.providers {
			if pt.Implements(t) {
				ctor, ok = p, true
				break
			}
		}
	}
	if !ok {
		return reflect.Value{}, fmt.Errorf("container: no provider for %v", t)
	}

	for _, seen := range path {
		if seen == t {
			return reflect.Value{}, fmt.Errorf("container: cyclic dependency for %v", t)
		}
	}
	path = append(path, t)

	ft := ctor.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		dep, err := c.build(ft.In(i), path)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = dep
	}
	outs := ctor.Call(args)
	if len(outs) == 2 {
		if err, _ := outs[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}
	}
	c.built[t] = outs[0]
	return outs[0], nil
}
