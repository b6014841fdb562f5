package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bsave/internal/value"
)

func parseYAML(t *testing.T, src string) value.Value {
	t.Helper()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	v, err := valueFromYAML(&doc)
	require.NoError(t, err)
	return v
}

func TestYAMLScalarMapping(t *testing.T) {
	v := parseYAML(t, `
small: 7
wide: 1099511627776
pi: 3.25
flag: true
label: hello
`)

	rec, ok := v.(value.Record)
	require.True(t, ok)

	small, _ := rec.Get("small")
	assert.Equal(t, value.Int32(7), small)

	// 2^40 does not fit 32 bits, so it widens.
	wide, _ := rec.Get("wide")
	assert.Equal(t, value.Int64(1099511627776), wide)

	pi, _ := rec.Get("pi")
	assert.Equal(t, value.Float64(3.25), pi)

	flag, _ := rec.Get("flag")
	assert.Equal(t, value.Bool(true), flag)

	label, _ := rec.Get("label")
	assert.Equal(t, value.String("hello"), label)
}

func TestYAMLNullMemberDropped(t *testing.T) {
	v := parseYAML(t, `
keep: 1
gone: null
also: 2
`)

	rec, ok := v.(value.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"keep", "also"}, rec.Names())
}

func TestYAMLFieldOrderPreserved(t *testing.T) {
	v := parseYAML(t, `
zebra: 1
apple: 2
mango: 3
`)

	rec, ok := v.(value.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, rec.Names())
}

func TestYAMLFieldNamesNormalized(t *testing.T) {
	// "é" as combining sequence (e + U+0301) versus precomposed U+00E9.
	// Both normalize to the same NFC name.
	combining := parseYAML(t, "cafe\u0301: 1\n")
	precomposed := parseYAML(t, "caf\u00e9: 1\n")

	rc, ok := combining.(value.Record)
	require.True(t, ok)
	rp, ok := precomposed.(value.Record)
	require.True(t, ok)
	assert.Equal(t, rc.Names(), rp.Names())
}

func TestYAMLEmptyFieldNameRejected(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`"": 1`), &doc))

	_, err := valueFromYAML(&doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty field name")
}

func TestYAMLRoundTripThroughNodes(t *testing.T) {
	tree := value.Rec(
		value.F("turn", value.Int32(42)),
		value.F("ratio", value.Float64(2)),
		value.F("tags", value.Seq(value.String("a"), value.String("b"))),
	)

	out, err := yaml.Marshal(valueToYAML(tree))
	require.NoError(t, err)

	// An integral float serializes with a decimal point so it parses back
	// as a float, not an int.
	assert.Contains(t, string(out), "ratio: 2.0")

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &doc))
	back, err := valueFromYAML(&doc)
	require.NoError(t, err)
	assert.Equal(t, value.Value(tree), back)
}
