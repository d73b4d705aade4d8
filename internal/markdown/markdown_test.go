package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenTOC(t *testing.T) {
	md := "# default\n## Options\n```yaml\n# not a heading\n```\n# vendor\n## Options\n"

	out := GenTOC("# Transformers\n", md)

	assert.Equal(t, "# Transformers\n"+
		"* [default](#default)\n"+
		"   * [Options](#options)\n"+
		"* [vendor](#vendor)\n"+
		"   * [Options](#options-1)\n"+
		"\n"+md, out)
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "strip-documentation", Anchor("strip-documentation"))
	assert.Equal(t, "example-usage-in-jomc-config", Anchor("Example usage in JOMC config"))
}

type options struct {
	Trim bool `yaml:"trim" description:"Trim names"`
}

func TestOptionsTable(t *testing.T) {
	table := OptionsTable(&options{Trim: true})

	assert.Contains(t, table, "trim|Trim names.|bool|<pre lang=\"yaml\">true</pre>|\n")
}
