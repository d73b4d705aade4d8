package markdown

import (
	"bufio"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

func structType(v interface{}) (reflect.Type, reflect.Value) {
	tp := reflect.TypeOf(v)
	val := reflect.ValueOf(v)

	if tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
		val = val.Elem()
	}

	return tp, val
}

func sortedFields(tp reflect.Type) ([]string, map[string]int) {
	fieldNames := make(map[string]int, tp.NumField())
	fields := make([]string, 0, tp.NumField())
	for i := 0; i < tp.NumField(); i++ {
		field := tp.Field(i)
		fieldNames[field.Name] = i
		fields = append(fields, field.Name)
	}

	sort.Strings(fields)

	return fields, fieldNames
}

// OptionsTable renders a table of the fields of an options struct with their defaults.
func OptionsTable(opts interface{}) string {
	var entriesBuilder strings.Builder

	optsTp, optsVal := structType(opts)

	entriesBuilder.WriteString(`
| Option | Description | Type | Default Value |
|:------:|-------------|:----:|:--------------|
`[1:])

	fields, fieldNames := sortedFields(optsTp)

	for _, f := range fields {
		field := optsTp.Field(fieldNames[f])
		val := optsVal.Field(fieldNames[f]).Interface()

		valB, err := yaml.Marshal(val)
		if err != nil {
			panic(err)
		}

		_, err = entriesBuilder.WriteString(
			strings.Join(
				[]string{
					strings.Split(field.Tag.Get("yaml"), ",")[0],
					field.Tag.Get("description") + ".",
					field.Type.String(),
					strings.Replace("<pre lang=\"yaml\">"+string(valB[:len(valB)-1])+"</pre>", "\n", "<br>", -1),
				},
				"|",
			) + "|\n",
		)

		if err != nil {
			panic(err)
		}
	}

	return entriesBuilder.String()
}

// ValuesTable renders a table of the fields available to a template.
func ValuesTable(values interface{}) string {
	var entriesBuilder strings.Builder

	tp, _ := structType(values)

	entriesBuilder.WriteString(`
| Value | Description |
|:-----:|-------------|
`[1:])

	fields, fieldNames := sortedFields(tp)

	for _, f := range fields {
		field := tp.Field(fieldNames[f])

		_, err := entriesBuilder.WriteString(
			strings.Join(
				[]string{
					field.Name,
					field.Tag.Get("description"),
				},
				"|",
			) + "|\n",
		)
		if err != nil {
			panic(err)
		}
	}

	return entriesBuilder.String()
}

// NamesTable renders a table of names and their descriptions.
func NamesTable(header string, names map[string]string) string {
	var entriesBuilder strings.Builder

	entriesBuilder.WriteString(`
| ` + header + ` | Description |
|:------:|-------------|
`[1:])

	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		entriesBuilder.WriteString(
			strings.Join(
				[]string{
					k,
					names[k],
				},
				"|") + "|\n",
		)
	}

	return entriesBuilder.String()
}

// GenTOC prepends a table of contents of the headings in md.
func GenTOC(header, md string) string {
	var toc strings.Builder

	anchors := make(map[string]int)
	fenced := false

	scanner := bufio.NewScanner(strings.NewReader(md))
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "```") {
			fenced = !fenced
			continue
		}

		if fenced || !strings.HasPrefix(line, "#") {
			continue
		}

		level := len(line) - len(strings.TrimLeft(line, "#"))
		title := strings.TrimSpace(line[level:])
		if title == "" {
			continue
		}

		anchor := Anchor(title)
		if n := anchors[anchor]; n > 0 {
			anchors[anchor]++
			anchor += "-" + strconv.Itoa(n)
		} else {
			anchors[anchor] = 1
		}

		toc.WriteString(strings.Repeat("   ", level-1) + "* [" + title + "](#" + anchor + ")\n")
	}

	return header + toc.String() + "\n" + md
}

// Anchor returns the GitHub anchor of a heading.
func Anchor(title string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}

	return b.String()
}
