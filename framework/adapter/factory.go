package adapter

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// DefaultMethod is the method invoked on factory values when none is given.
const DefaultMethod = "Invoke"

// Factory builds the service registered under name.
type Factory func(l Locator, name string, options map[string]any) (any, error)

// Invoker is implemented by factory objects called through DefaultMethod.
type Invoker interface {
	Invoke(l Locator, name string, options map[string]any) (any, error)
}

var (
	locatorType = reflect.TypeOf((*Locator)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	stringType  = reflect.TypeOf("")
	optionsType = reflect.TypeOf(map[string]any(nil))
)

// Invocable normalises payload into a Factory.
//
// A payload is directly invocable when it is a Factory or any function whose
// parameters are a prefix of (Locator, string, map[string]any) and whose
// results are (T) or (T, error). Otherwise it is paired with method: the
// payload must expose a method of that shape, looked up with its first rune
// upper-cased ("create" finds Create). An empty method means DefaultMethod.
func Invocable(payload any, method string) (Factory, bool) {
	if isNil(payload) {
		return nil, false
	}
	if method == "" {
		method = DefaultMethod
	}

	switch f := payload.(type) {
	case Factory:
		return f, f != nil
	case func(Locator, string, map[string]any) (any, error):
		return f, f != nil
	case Invoker:
		if method == DefaultMethod {
			return f.Invoke, true
		}
	}

	v := reflect.ValueOf(payload)
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return nil, false
		}
		return adaptFunc(v)
	}

	m := v.MethodByName(exported(method))
	if !m.IsValid() {
		return nil, false
	}
	return adaptFunc(m)
}

// adaptFunc wraps fn in a Factory when its signature is supported.
func adaptFunc(fn reflect.Value) (Factory, bool) {
	t := fn.Type()
	if t.IsVariadic() || t.NumIn() > 3 || t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, false
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return nil, false
	}
	wants := []reflect.Type{locatorType, stringType, optionsType}
	for i := 0; i < t.NumIn(); i++ {
		if !wants[i].AssignableTo(t.In(i)) {
			return nil, false
		}
	}

	return func(l Locator, name string, options map[string]any) (any, error) {
		given := []any{l, name, options}
		in := make([]reflect.Value, t.NumIn())
		for i := range in {
			if given[i] == nil || (i == 2 && options == nil) {
				in[i] = reflect.Zero(t.In(i))
				continue
			}
			in[i] = reflect.ValueOf(given[i])
		}

		out := fn.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return valueOf(out[0]), nil
	}, true
}

// isNil reports whether v is nil or a typed nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func valueOf(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func exported(method string) string {
	r, size := utf8.DecodeRuneInString(method)
	if r == utf8.RuneError {
		return method
	}
	return string(unicode.ToUpper(r)) + method[size:]
}

// Describe returns a short type description of v for error messages.
func Describe(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
