package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"
)

// writeResults prints the results of a call; a single result is printed on
// its own.
func writeResults(w io.Writer, format string, results []any) error {
	for i, r := range results {
		results[i] = printable(r)
	}

	var v any = results
	switch len(results) {
	case 0:
		v = true
	case 1:
		v = results[0]
	}

	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printable turns XML trees into their text form.
func printable(v any) any {
	switch x := v.(type) {
	case *etree.Document:
		s, err := x.WriteToString()
		if err != nil {
			return err.Error()
		}
		return s
	case *etree.Element:
		doc := etree.NewDocument()
		doc.SetRoot(x.Copy())
		s, err := doc.WriteToString()
		if err != nil {
			return err.Error()
		}
		return s
	}
	return v
}
