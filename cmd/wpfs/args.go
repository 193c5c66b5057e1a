package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

var (
	contextType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	durationType = reflect.TypeOf(time.Duration(0))
	modeType     = reflect.TypeOf(os.FileMode(0))
	timeType     = reflect.TypeOf(time.Time{})
	documentType = reflect.TypeOf((*etree.Document)(nil))
)

// convertArgs parses command line arguments into the parameter types of
// method type mt. A leading context parameter is skipped; it is injected by
// the facade.
func convertArgs(mt reflect.Type, args []string) ([]any, error) {
	start := 0
	if mt.NumIn() > 0 && mt.In(0) == contextType {
		start = 1
	}
	params := mt.NumIn() - start
	if len(args) > params {
		return nil, fmt.Errorf("too many arguments: want at most %d, got %d", params, len(args))
	}

	out := make([]any, len(args))
	for i, arg := range args {
		v, err := parseArg(arg, mt.In(start+i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArg(s string, t reflect.Type) (any, error) {
	switch t {
	case durationType:
		return time.ParseDuration(s)
	case modeType:
		if s == "" {
			return os.FileMode(0), nil
		}
		m, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid octal mode %q", s)
		}
		return os.FileMode(m), nil
	case timeType:
		if s == "" {
			return time.Time{}, nil
		}
		if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(sec, 0), nil
		}
		return time.Parse(time.RFC3339, s)
	case documentType:
		doc := etree.NewDocument()
		if err := doc.ReadFromString(s); err != nil {
			return nil, err
		}
		return doc, nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t).Interface(), nil
	case reflect.Bool:
		return strconv.ParseBool(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			if s == "" {
				return []string{}, nil
			}
			return strings.Split(s, ","), nil
		}
	case reflect.Func:
		if s == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("%s cannot be given on the command line", t)
	case reflect.Interface:
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return s, nil
		}
		return v, nil
	}

	// Structs, pointers to structs and maps are JSON.
	ptr := reflect.New(t)
	if err := json.Unmarshal([]byte(s), ptr.Interface()); err != nil {
		return nil, fmt.Errorf("cannot parse %q as %s: %w", s, t, err)
	}
	return ptr.Elem().Interface(), nil
}
