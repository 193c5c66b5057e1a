package wpfs

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// ProviderOrder is the order in which the facade looks for a method.
var ProviderOrder = []Kind{KindReader, KindAuditor, KindAction, KindManager, KindAdvanced}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()

	contracts = map[Kind]reflect.Type{
		KindReader:   reflect.TypeOf((*Reader)(nil)).Elem(),
		KindAction:   reflect.TypeOf((*Action)(nil)).Elem(),
		KindAuditor:  reflect.TypeOf((*Auditor)(nil)).Elem(),
		KindManager:  reflect.TypeOf((*Manager)(nil)).Elem(),
		KindAdvanced: reflect.TypeOf((*Advanced)(nil)).Elem(),
	}
)

// argDefaults holds the values missing trailing arguments take when the
// zero value would change the meaning of a call, indexed by parameter
// position after the context. A nil entry means the zero value.
var argDefaults = map[string][]any{
	"GetFiles":         {nil, 100},
	"GetDirectoryList": {nil, true},
	"WriteJSON":        {nil, nil, true},
}

// Facade is a single entry point over every service of a factory. It has no
// operations of its own; Call forwards to the first service whose contract
// has the requested method.
type Facade struct {
	factory *Factory
}

// NewFacade creates a facade over f.
func NewFacade(f *Factory) *Facade {
	return &Facade{factory: f}
}

// Factory returns the factory the facade resolves services from.
func (f *Facade) Factory() *Factory { return f.factory }

// MethodName normalises "getContents" and "get_contents" to "GetContents".
func MethodName(name string) string {
	if strings.Contains(name, "_") {
		return Operation(strings.ToLower(name)).Method()
	}
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Resolve returns the kind whose contract declares name. An exact match
// wins; otherwise case is ignored, so "verifyMd5" finds VerifyMD5.
func Resolve(name string) (Kind, reflect.Method, bool) {
	method := MethodName(name)
	for _, kind := range ProviderOrder {
		if m, ok := contracts[kind].MethodByName(method); ok && m.Name != "Kind" {
			return kind, m, true
		}
	}
	for _, kind := range ProviderOrder {
		t := contracts[kind]
		for i := 0; i < t.NumMethod(); i++ {
			if m := t.Method(i); m.Name != "Kind" && strings.EqualFold(m.Name, method) {
				return kind, m, true
			}
		}
	}
	return "", reflect.Method{}, false
}

// Call invokes name with args on the first service providing it. ctx is
// passed when the method takes one. Missing trailing arguments take their
// usual default, or the zero value when the method has none. The results are returned without the trailing error.
func (f *Facade) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	kind, method, ok := Resolve(name)
	if !ok {
		return nil, &FSError{
			Op:  "call",
			Msg: fmt.Sprintf("Method \"%s\" does not exist.", name),
			Err: ErrMethodNotFound,
		}
	}

	svc, err := f.factory.Create(kind)
	if err != nil {
		return nil, err
	}

	fn := reflect.ValueOf(svc).MethodByName(method.Name)
	if !fn.IsValid() {
		return nil, &FSError{
			Op:  "call",
			Msg: fmt.Sprintf("Method \"%s\" does not exist.", name),
			Err: ErrMethodNotFound,
		}
	}
	in, err := bindArgs(ctx, method.Name, fn.Type(), args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)

	var callErr error
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			callErr = e.Interface().(error)
		}
		out = out[:n-1]
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, callErr
}

func bindArgs(ctx context.Context, name string, ft reflect.Type, args []any) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, ft.NumIn())
	start := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		start = 1
	}

	params := ft.NumIn() - start
	if len(args) > params {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", name, params, len(args))
	}

	for i := 0; i < params; i++ {
		pt := ft.In(start + i)
		arg := defaultArg(name, i)
		if i < len(args) && args[i] != nil {
			arg = args[i]
		}
		if arg == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		v, err := convertArg(reflect.ValueOf(arg), pt)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", name, i+1, err)
		}
		in = append(in, v)
	}
	return in, nil
}

func defaultArg(name string, i int) any {
	if defs := argDefaults[name]; i < len(defs) {
		return defs[i]
	}
	return nil
}

func convertArg(v reflect.Value, pt reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	// A lone string stands for a one-element list.
	if v.Kind() == reflect.String && pt.Kind() == reflect.Slice && pt.Elem().Kind() == reflect.String {
		s := reflect.MakeSlice(pt, 1, 1)
		s.Index(0).Set(v.Convert(pt.Elem()))
		return s, nil
	}
	// Only numeric and same-kind conversions; int -> string would yield a rune.
	numeric := func(k reflect.Kind) bool {
		return (k >= reflect.Int && k <= reflect.Float64)
	}
	if v.Kind() == pt.Kind() || (numeric(v.Kind()) && numeric(pt.Kind())) {
		if v.Type().ConvertibleTo(pt) {
			return v.Convert(pt), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), pt)
}

// Methods lists the methods the facade can dispatch, grouped by kind.
func Methods() map[Kind][]string {
	out := make(map[Kind][]string, len(contracts))
	for kind, t := range contracts {
		for i := 0; i < t.NumMethod(); i++ {
			if name := t.Method(i).Name; name != "Kind" {
				out[kind] = append(out[kind], name)
			}
		}
		sort.Strings(out[kind])
	}
	return out
}

// ============================================================================
// Package-level facade
// ============================================================================

// Call dispatches name on the global factory.
func Call(ctx context.Context, name string, args ...any) ([]any, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return NewFacade(f).Call(ctx, name, args...)
}

func GetReader() (Reader, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Reader()
}

func GetAction() (Action, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Action()
}

func GetAuditor() (Auditor, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Auditor()
}

func GetManager() (Manager, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Manager()
}

func GetAdvanced() (Advanced, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Advanced()
}
