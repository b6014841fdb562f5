package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bsave/internal/savefile"
	"github.com/roach88/bsave/internal/value"
)

// codecFlags is the flag set shared by every command that encodes or
// decodes a save file. Reader and writer must agree on these - they are
// not recorded in the file.
type codecFlags struct {
	Compress     bool
	Algorithm    string
	Backup       bool
	MultiBackup  bool
	Clear        bool
	U64          bool
	RealInt      bool
	AssumeHetero bool
}

// register adds the codec flags to a command.
func (c *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.Compress, "compress", false, "compress the whole buffer")
	cmd.Flags().StringVar(&c.Algorithm, "compression", "zstd", "compression algorithm (zstd|lz4)")
	cmd.Flags().BoolVar(&c.Backup, "backup", false, "copy an existing target to <name>.bak before writing")
	cmd.Flags().BoolVar(&c.MultiBackup, "multi-backup", false, "use numbered backups <name>.bak.N")
	cmd.Flags().BoolVar(&c.Clear, "clear", false, "delete the target file before writing")
	cmd.Flags().BoolVar(&c.U64, "u64", false, "enable the 64-bit integer tag")
	cmd.Flags().BoolVar(&c.RealInt, "realint", false, "downcast integral floats to int32 (lossy)")
	cmd.Flags().BoolVar(&c.AssumeHetero, "assume-hetero", false, "disable sequence optimization")
}

// toOptions converts the flag values into savefile options.
func (c *codecFlags) toOptions() (savefile.Options, error) {
	algo, err := savefile.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return savefile.Options{}, err
	}
	return savefile.Options{
		Compress:       c.Compress,
		Compression:    algo,
		Backup:         c.Backup,
		MultiBackup:    c.MultiBackup,
		ClearExisting:  c.Clear,
		SupportU64:     c.U64,
		SupportRealInt: c.RealInt,
		AssumeHetero:   c.AssumeHetero,
	}, nil
}

// valueFromYAML converts a parsed YAML node into a value tree. Mapping
// order is preserved (yaml.Node keeps document order, unlike a Go map).
// Field names are NFC-normalized at this text boundary so hand-authored
// YAML with differently-composed Unicode cannot produce records that look
// identical but compare unequal.
func valueFromYAML(node *yaml.Node) (value.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, fmt.Errorf("document must contain exactly one value, has %d", len(node.Content))
		}
		return valueFromYAML(node.Content[0])

	case yaml.MappingNode:
		rec := make(value.Record, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: non-scalar mapping key", keyNode.Line)
			}
			name := norm.NFC.String(keyNode.Value)
			if name == "" {
				return nil, fmt.Errorf("line %d: empty field name", keyNode.Line)
			}
			v, err := valueFromYAML(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			if v == nil {
				// Null member: unsupported, dropped like the codec drops it.
				continue
			}
			rec = append(rec, value.Field{Name: name, Value: v})
		}
		return rec, nil

	case yaml.SequenceNode:
		seq := make(value.Sequence, 0, len(node.Content))
		for i, elem := range node.Content {
			v, err := valueFromYAML(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			seq = append(seq, v)
		}
		return seq, nil

	case yaml.ScalarNode:
		return scalarFromYAML(node)

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind", node.Line)
	}
}

// scalarFromYAML maps a YAML scalar onto the narrowest value kind:
// integers that fit 32 bits become Int32, wider ones Int64.
func scalarFromYAML(node *yaml.Node) (value.Value, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil

	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bool %q", node.Line, node.Value)
		}
		return value.Bool(b), nil

	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %q", node.Line, node.Value)
		}
		if n >= -1<<31 && n < 1<<31 {
			return value.Int32(n), nil
		}
		return value.Int64(n), nil

	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad float %q", node.Line, node.Value)
		}
		return value.Float64(f), nil

	case "!!str", "":
		return value.String(node.Value), nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML tag %s", node.Line, node.Tag)
	}
}

// valueToYAML converts a value tree into a YAML node, preserving record
// field order.
func valueToYAML(v value.Value) *yaml.Node {
	switch sv := v.(type) {
	case value.Int32:
		return yamlScalar("!!int", strconv.FormatInt(int64(sv), 10))

	case value.Int64:
		return yamlScalar("!!int", strconv.FormatInt(int64(sv), 10))

	case value.Float64:
		s := strconv.FormatFloat(float64(sv), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			// Keep the scalar unambiguously a float across a YAML round
			// trip.
			s += ".0"
		}
		return yamlScalar("!!float", s)

	case value.String:
		return yamlScalar("!!str", string(sv))

	case value.Bool:
		return yamlScalar("!!bool", strconv.FormatBool(bool(sv)))

	case value.Record:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, fld := range sv {
			if fld.Value == nil {
				continue
			}
			node.Content = append(node.Content,
				yamlScalar("!!str", fld.Name),
				valueToYAML(fld.Value))
		}
		return node

	case value.Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range sv {
			if elem == nil {
				continue
			}
			node.Content = append(node.Content, valueToYAML(elem))
		}
		return node

	default:
		return yamlScalar("!!null", "null")
	}
}

func yamlScalar(tag, val string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
}
