package ircprotocol

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Pack formats a command as a single wire line, without the line delimiter.
//
// Verbs with a parameter table take their values from params in table
// order, regardless of the order the caller built the map in, followed by
// any extra positional values under ParamArgs. Other verbs take all their
// values from ParamArgs.
//
// A value that contains a space, is empty, or starts with ':' is written as
// the trailing parameter. Only the last value may be trailing; anything
// else is an *EncodingError, as is any value containing CR, LF or NUL, and
// any key the verb does not take. ParamPrefix is ignored, so inbound event
// params can be sent back unchanged.
func Pack(command string, params Params) (string, error) {
	if !isVerb(command) {
		return "", newEncodingError(command, "", "is not a valid verb")
	}
	verb := strings.ToUpper(command)

	names, values, err := collectValues(verb, params)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(verb)
	last := len(values) - 1
	for i, v := range values {
		if strings.ContainsAny(v, "\r\n\x00") {
			return "", newEncodingError(verb, names[i], "contains a line delimiter")
		}
		b.WriteByte(' ')
		if needsTrailing(v) {
			if i != last {
				return "", newEncodingError(verb, names[i], trailingReason(v))
			}
			b.WriteByte(TrailingMarker)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// collectValues orders the command's values and returns the parameter name
// each one came from, for error reporting.
func collectValues(verb string, params Params) ([]string, []string, error) {
	var names, values []string

	def, known := lookupCommand(verb)
	for _, key := range slices.Sorted(maps.Keys(params)) {
		if key == ParamArgs || key == ParamPrefix || params[key] == nil {
			continue
		}
		if !known || !slices.Contains(def.Params, key) {
			return nil, nil, newEncodingError(verb, key, "is not a parameter of "+verb)
		}
	}

	missing := ""
	if known {
		for _, name := range def.Params {
			v, ok := params[name]
			if !ok || v == nil {
				if missing == "" {
					missing = name
				}
				continue
			}
			if missing != "" {
				return nil, nil, newEncodingError(verb, name, fmt.Sprintf("is set but %q before it is not", missing))
			}
			names = append(names, name)
			values = append(values, formatValue(v))
		}
	}

	if raw, ok := params[ParamArgs]; ok && raw != nil {
		extra, ok := raw.([]string)
		if !ok {
			return nil, nil, newEncodingError(verb, ParamArgs, "must be a []string")
		}
		if len(extra) > 0 && missing != "" {
			return nil, nil, newEncodingError(verb, ParamArgs, fmt.Sprintf("given but %q is not", missing))
		}
		for i, v := range extra {
			names = append(names, fmt.Sprintf("%s[%d]", ParamArgs, i))
			values = append(values, v)
		}
	}
	return names, values, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// needsTrailing reports whether v can only be sent as the trailing parameter.
func needsTrailing(v string) bool {
	return v == "" || v[0] == TrailingMarker || strings.IndexByte(v, ' ') >= 0
}

func trailingReason(v string) string {
	switch {
	case v == "":
		return "is empty but is not the last parameter"
	case v[0] == TrailingMarker:
		return "starts with ':' but is not the last parameter"
	default:
		return "contains a space but is not the last parameter"
	}
}
