package main

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/jomc/jomc/cmd/jomc/config"
	"github.com/jomc/jomc/internal/markdown"
	"github.com/jomc/jomc/pkg/common"
)

func main() {
	var transformersBuilder strings.Builder

	names := make(map[string]string, len(config.Transformers))
	for _, t := range config.Transformers {
		names[t.Name()] = t.Description()
	}
	transformersBuilder.WriteString(markdown.NamesTable("Transformer", names))
	transformersBuilder.WriteString("\n")

	for _, t := range config.Transformers {
		tMd, ok := t.(common.DescriptionMarkdown)
		if !ok {
			continue
		}

		tDesc := bufio.NewScanner(bytes.NewBufferString(tMd.DescriptionMarkdown()))
		transformersBuilder.WriteString("# " + t.Name() + "\n")

		for tDesc.Scan() {
			line := tDesc.Text()
			if len(line) != 0 && line[0] == '#' {
				line = "#" + line
			}
			transformersBuilder.WriteString(line + "\n")
		}
		transformersBuilder.WriteString("\n")
	}

	var configBuilder strings.Builder

	configBuilder.WriteString("# Options\n\n")
	configBuilder.WriteString(markdown.OptionsTable(config.DefaultJomcOptions()))
	configBuilder.WriteString("\n")

	configBuilder.WriteString("# Report template values\n\n")
	configBuilder.WriteString(markdown.ValuesTable(config.ReportValues{}))
	configBuilder.WriteString("\n")

	writeDoc("./docs/cli/transformers", markdown.GenTOC("# Model object transformers\n", transformersBuilder.String()))
	writeDoc("./docs/cli/configuration", markdown.GenTOC("# Configuration\n", configBuilder.String()))
}

func writeDoc(dir, content string) {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		panic(err)
	}

	f, err := os.Create(dir + "/README.md")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	_, err = f.WriteString(content)
	if err != nil {
		panic(err)
	}
}
