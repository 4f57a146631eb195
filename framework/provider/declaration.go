package provider

import (
	"reflect"

	"github.com/km-arc/go-container/framework/adapter"
	cerrors "github.com/km-arc/go-container/framework/errors"
)

// factoryDecl is a validated factory declaration: callableDecl or classDecl.
type factoryDecl interface {
	isFactoryDecl()
}

// callableDecl is a factory value, invoked directly or through method.
type callableDecl struct {
	payload any
	method  string
}

// classDecl names a factory class registered with the adapter.
type classDecl struct {
	class  string
	method string
}

func (callableDecl) isFactoryDecl() {}
func (classDecl) isFactoryDecl()    {}

// declare classifies the configured factory value for service name.
//
//	"mail.Factory"                 → classDecl
//	[]any{"mail.Factory", "create"} → classDecl with method
//	[]any{obj, "create"}           → callableDecl with method
//	anything else                  → callableDecl (validated when registered)
func declare(name string, value any) (factoryDecl, error) {
	payload, method, isArray, ok := arrayForm(value)
	if !isArray {
		if class, ok := value.(string); ok {
			return classDecl{class: class, method: adapter.DefaultMethod}, nil
		}
		return callableDecl{payload: value, method: adapter.DefaultMethod}, nil
	}

	if payload == nil {
		return nil, cerrors.ServiceProvider("the factory configuration array for service '%s' is invalid", name)
	}
	if !ok || isScalar(payload) {
		return nil, cerrors.ServiceProvider("failed to register service '%s': the provided array configuration is invalid", name)
	}
	if method == "" {
		method = adapter.DefaultMethod
	}
	if class, ok := payload.(string); ok {
		return classDecl{class: class, method: method}, nil
	}
	return callableDecl{payload: payload, method: method}, nil
}

// arrayForm unpacks [factory, method] declarations. ok is false when the
// method element is present but not a string.
func arrayForm(value any) (payload any, method string, isArray, ok bool) {
	switch ref := value.(type) {
	case FactoryRef:
		return ref.Factory, ref.Method, true, true
	case *FactoryRef:
		if ref == nil {
			return nil, "", true, true
		}
		return ref.Factory, ref.Method, true, true
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, "", false, false
	}
	if v.Len() == 0 {
		return nil, "", true, true
	}
	payload = elem(v.Index(0))
	if v.Len() > 1 {
		m := elem(v.Index(1))
		if m != nil {
			if method, ok = m.(string); !ok {
				return payload, "", true, false
			}
		}
	}
	return payload, method, true, true
}

func elem(v reflect.Value) any {
	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil
	}
	return v.Interface()
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
