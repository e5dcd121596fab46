package config

import (
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultShebang is written when a build description sets shebang to true.
const DefaultShebang = "#!/usr/bin/env node"

// Buildfile represents the structure of the robuild.yaml configuration file.
type Buildfile struct {
	Exports bool                `yaml:"exports"`
	Hooks   map[string][]string `yaml:"hooks"`
	Entries []EntryDTO          `yaml:"entries"`
}

// EntryDTO is an entry written either as a "path[,path]:outDir" string or as a mapping.
type EntryDTO struct {
	Shorthand string

	Name           string            `yaml:"name"`
	Kind           string            `yaml:"kind"`
	Input          InputDTO          `yaml:"input"`
	OutDir         string            `yaml:"outDir"`
	Format         StringList        `yaml:"format"`
	Platform       string            `yaml:"platform"`
	GlobalName     string            `yaml:"globalName"`
	Clean          CleanDTO          `yaml:"clean"`
	Minify         *bool             `yaml:"minify"`
	Sourcemap      *bool             `yaml:"sourcemap"`
	Declarations   *bool             `yaml:"dts"`
	Hash           *bool             `yaml:"hash"`
	FixedExtension *bool             `yaml:"fixedExtension"`
	External       StringList        `yaml:"external"`
	NoExternal     StringList        `yaml:"noExternal"`
	Env            map[string]string `yaml:"env"`
	Define         map[string]string `yaml:"define"`
	Copy           []CopyDTO         `yaml:"copy"`
	Shebang        ShebangDTO        `yaml:"shebang"`
	NodeProtocol   string            `yaml:"nodeProtocol"`
	Target         string            `yaml:"target"`
	Banner         string            `yaml:"banner"`
	Footer         string            `yaml:"footer"`
}

type entryFields EntryDTO

// UnmarshalYAML accepts the shorthand string and the mapping form.
func (e *EntryDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*e = EntryDTO{Shorthand: value.Value}
		return nil
	}
	var fields entryFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*e = EntryDTO(fields)
	return nil
}

// StringList accepts a single string or a sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// InputDTO accepts a path, a list of paths or a name to path mapping.
type InputDTO struct {
	Paths []string
	Named map[string]string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *InputDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		i.Paths = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		return value.Decode(&i.Paths)
	case yaml.MappingNode:
		return value.Decode(&i.Named)
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidEntry, "unsupported input value"), "line", value.Line)
	}
}

// CleanDTO accepts a boolean or a list of extra directories to clean.
type CleanDTO struct {
	Enabled *bool
	Paths   []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CleanDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		enabled := true
		c.Enabled = &enabled
		return value.Decode(&c.Paths)
	}
	var enabled bool
	if err := value.Decode(&enabled); err != nil {
		return err
	}
	c.Enabled = &enabled
	return nil
}

// CopyDTO is a copy rule written as "from" or "from:to" or as a mapping.
type CopyDTO struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type copyFields CopyDTO

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CopyDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.From, c.To = splitCopy(value.Value)
		return nil
	}
	var fields copyFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*c = CopyDTO(fields)
	return nil
}

// ShebangDTO accepts true for the default interpreter line or an explicit line.
type ShebangDTO struct {
	Line string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ShebangDTO) UnmarshalYAML(value *yaml.Node) error {
	var enabled bool
	if value.Tag == "!!bool" {
		if err := value.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			s.Line = DefaultShebang
		}
		return nil
	}
	s.Line = value.Value
	return nil
}
