// Package card renders project cards as templ components.
//
// A card shows a project's name, its description, an image or a generated
// color banner, and two groups of footer links: documentation links
// (GitHub, website) and social links (Discord, Twitter, Telegram).
// Rendering is pure: the same ProjectCard and options always produce the
// same HTML, and nothing is mutated.
package card

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProjectCard describes one project.
type ProjectCard struct {
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	// Description accepts a single string or a list of paragraphs.
	Description     Description `json:"description" yaml:"description"`
	LongDescription Description `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	// Image is an absolute http(s) URL or the name of a local asset.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
	Links []Link `json:"links,omitempty" yaml:"links,omitempty"`
	// RenderBanner controls the generated banner. Nil means enabled.
	RenderBanner *bool `json:"renderBanner,omitempty" yaml:"renderBanner,omitempty"`
}

// DisplayName is the label drawn on the banner.
func (p ProjectCard) DisplayName() string {
	if p.ShortName != "" {
		return p.ShortName
	}
	return p.Name
}

// BannerEnabled reports whether a banner may be drawn in place of an image.
func (p ProjectCard) BannerEnabled() bool {
	return p.RenderBanner == nil || *p.RenderBanner
}

// Link holds the URLs of one link entry. Entries normally set a single
// field; when several are set the first match of each footer group wins.
type Link struct {
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
	Discord  string `json:"discord,omitempty" yaml:"discord,omitempty"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty" yaml:"telegram,omitempty"`
}

// Fields returns the sources that are set on the entry, in lookup order.
func (l Link) Fields() []string {
	var set []string
	for _, f := range []struct {
		source string
		url    string
	}{
		{SourceGitHub, l.GitHub},
		{SourceWebsite, l.Website},
		{SourceDiscord, l.Discord},
		{SourceTwitter, l.Twitter},
		{SourceTelegram, l.Telegram},
	} {
		if f.url != "" {
			set = append(set, f.source)
		}
	}
	return set
}

// Description is an ordered list of paragraphs. It decodes from either a
// single string or a sequence of strings.
type Description []string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Description) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = Description{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("description must be a string or a list of strings: %w", err)
	}
	*d = Description(many)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Description) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*d = Description{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*d = Description(many)
		return nil
	default:
		return fmt.Errorf("line %d: description must be a string or a list of strings", value.Line)
	}
}
