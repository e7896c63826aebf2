package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for content hashing.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units (RFC 8785), not UTF-8 bytes
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized, so equivalent spellings hash identically
func MarshalCanonical(v IRValue) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v IRValue) error {
	switch val := v.(type) {
	case nil, IRNull:
		buf.WriteString("null")
	case IRString:
		return writeCanonicalString(buf, string(val))
	case IRInt:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case IRBool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case IRArray:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case IRObject:
		buf.WriteByte('{')
		for i, key := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[key]); err != nil {
				return fmt.Errorf("object[%q]: %w", key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// json.Encoder adds a trailing newline
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// DocumentValue encodes a document's structure as an IRObject so it can be
// hashed canonically. Selection order is preserved; it is significant.
func DocumentValue(doc Document) IRObject {
	switch d := doc.(type) {
	case *Operation:
		return IRObject{
			"kind":         IRString(d.Kind),
			"name":         IRString(d.Name),
			"type":         IRString(d.Type),
			"arguments":    argumentsValue(d.ArgumentDefinitions),
			"selections":   selectionsValue(d.Selections),
			"raw_response": IRBool(d.RawResponse),
		}
	case *Fragment:
		return IRObject{
			"kind":           IRString("fragment"),
			"name":           IRString(d.Name),
			"type_condition": IRString(d.TypeCondition),
			"selections":     selectionsValue(d.Selections),
			"plural":         IRBool(d.Plural),
		}
	default:
		panic(fmt.Sprintf("unhandled document type %T", doc))
	}
}

func argumentsValue(args []ArgumentDefinition) IRArray {
	out := make(IRArray, len(args))
	for i, arg := range args {
		obj := IRObject{
			"name": IRString(arg.Name),
			"type": IRString(arg.Type.String()),
		}
		if arg.DefaultValue != nil {
			obj["default"] = arg.DefaultValue
		}
		out[i] = obj
	}
	return out
}

func selectionsValue(sels []Selection) IRArray {
	out := make(IRArray, len(sels))
	for i, sel := range sels {
		switch s := sel.(type) {
		case *Field:
			out[i] = IRObject{
				"field":      IRString(s.Name),
				"alias":      IRString(s.Alias),
				"type":       IRString(s.Type.String()),
				"selections": selectionsValue(s.Selections),
			}
		case *FragmentSpread:
			out[i] = IRObject{"spread": IRString(s.Name)}
		case *InlineFragment:
			out[i] = IRObject{
				"on":         IRString(s.TypeCondition),
				"selections": selectionsValue(s.Selections),
			}
		case *Condition:
			out[i] = IRObject{
				"condition":  IRString(s.Variable),
				"passing":    IRBool(s.Passing),
				"selections": selectionsValue(s.Selections),
			}
		default:
			panic(fmt.Sprintf("unhandled selection type %T", sel))
		}
	}
	return out
}

// RootValue encodes a normalized tree for hashing.
func RootValue(root *Root) IRObject {
	return IRObject{
		"kind":       IRString(root.Kind),
		"name":       IRString(root.Name),
		"type":       IRString(root.Type),
		"arguments":  argumentsValue(root.ArgumentDefinitions),
		"selections": selectionsValue(root.Selections),
	}
}

// SchemaValue encodes the schema arena for hashing, types in declaration
// order.
func SchemaValue(s *Schema) IRObject {
	types := make(IRArray, len(s.types))
	for i, t := range s.types {
		fields := make(IRArray, len(t.Fields))
		for j, f := range t.Fields {
			fields[j] = IRObject{
				"name":      IRString(f.Name),
				"type":      IRString(f.Type.String()),
				"arguments": argumentsValue(f.Args),
			}
		}
		inputs := make(IRArray, len(t.InputFields))
		for j, f := range t.InputFields {
			obj := IRObject{
				"name": IRString(f.Name),
				"type": IRString(f.Type.String()),
			}
			if f.DefaultValue != nil {
				obj["default"] = f.DefaultValue
			}
			inputs[j] = obj
		}
		types[i] = IRObject{
			"kind":         IRString(t.Kind),
			"name":         IRString(t.Name),
			"fields":       fields,
			"input_fields": inputs,
			"values":       stringsValue(t.Values),
			"interfaces":   stringsValue(t.Interfaces),
			"members":      stringsValue(t.Members),
		}
	}
	return IRObject{
		"types":        types,
		"query":        IRString(s.QueryType),
		"mutation":     IRString(s.MutationType),
		"subscription": IRString(s.SubscriptionType),
	}
}

func stringsValue(ss []string) IRArray {
	out := make(IRArray, len(ss))
	for i, s := range ss {
		out[i] = IRString(s)
	}
	return out
}
