package model

import (
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"unicode/utf8"
)

// DefaultPropertyType is the type of properties declaring none.
const DefaultPropertyType = "java.lang.String"

// ValueParser converts the string form of a property value
// to a Go value.
type ValueParser func(value string) (interface{}, error)

// ValueParsers maps Java type names to value parsers.
type ValueParsers map[string]ValueParser

// DefaultValueParsers returns parsers for the Java types properties
// can have out of the box. Each call returns a new map that callers
// may extend.
func DefaultValueParsers() ValueParsers {
	parseInt := func(bits int) ValueParser {
		return func(v string) (interface{}, error) {
			return strconv.ParseInt(v, 10, bits)
		}
	}
	parseFloat := func(bits int) ValueParser {
		return func(v string) (interface{}, error) {
			return strconv.ParseFloat(v, bits)
		}
	}
	parseBool := func(v string) (interface{}, error) {
		return strconv.ParseBool(v)
	}
	parseChar := func(v string) (interface{}, error) {
		if utf8.RuneCountInString(v) != 1 {
			return nil, fmt.Errorf("%q is not a single character", v)
		}
		r, _ := utf8.DecodeRuneInString(v)
		return r, nil
	}

	return ValueParsers{
		"java.lang.String":    func(v string) (interface{}, error) { return v, nil },
		"java.lang.Byte":      parseInt(8),
		"byte":                parseInt(8),
		"java.lang.Short":     parseInt(16),
		"short":               parseInt(16),
		"java.lang.Integer":   parseInt(32),
		"int":                 parseInt(32),
		"java.lang.Long":      parseInt(64),
		"long":                parseInt(64),
		"java.lang.Float":     parseFloat(32),
		"float":               parseFloat(32),
		"java.lang.Double":    parseFloat(64),
		"double":              parseFloat(64),
		"java.lang.Boolean":   parseBool,
		"boolean":             parseBool,
		"java.lang.Character": parseChar,
		"char":                parseChar,
		"java.math.BigInteger": func(v string) (interface{}, error) {
			i, ok := new(big.Int).SetString(v, 10)
			if !ok {
				return nil, fmt.Errorf("%q is not an integer", v)
			}
			return i, nil
		},
		"java.math.BigDecimal": func(v string) (interface{}, error) {
			r, ok := new(big.Rat).SetString(v)
			if !ok {
				return nil, fmt.Errorf("%q is not a decimal", v)
			}
			return r, nil
		},
		"java.net.URI": func(v string) (interface{}, error) {
			return url.Parse(v)
		},
		"java.net.URL": func(v string) (interface{}, error) {
			return url.ParseRequestURI(v)
		},
	}
}

// Parse parses value as an instance of javaType.
func (p ValueParsers) Parse(javaType, value string) (interface{}, error) {
	if javaType == "" {
		javaType = DefaultPropertyType
	}
	parse, ok := p[javaType]
	if !ok {
		return nil, fmt.Errorf("no value parser for type %q", javaType)
	}
	v, err := parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %v value: %w", javaType, err)
	}
	return v, nil
}

// JavaValue parses the value of the property according to its type.
func (p *Property) JavaValue(parsers ValueParsers) (interface{}, error) {
	return parsers.Parse(p.Type, p.Value)
}
