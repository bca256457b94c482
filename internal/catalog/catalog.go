package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Industry struct {
	Name   string   `yaml:"name" json:"name"`
	Topics []string `yaml:"topics" json:"topics"`
}

// Catalog lists the interview configurations a session can be created with
type Catalog struct {
	Types        []string   `yaml:"types" json:"types"`
	Difficulties []string   `yaml:"difficulties" json:"difficulties"`
	Industries   []Industry `yaml:"industries" json:"industries"`

	topics map[string]map[string]bool
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics if the embedded catalog is invalid
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Industries) == 0 || len(c.Types) == 0 || len(c.Difficulties) == 0 {
		return nil, fmt.Errorf("catalog must define industries, types and difficulties")
	}

	c.topics = make(map[string]map[string]bool, len(c.Industries))
	for _, ind := range c.Industries {
		set := make(map[string]bool, len(ind.Topics))
		for _, t := range ind.Topics {
			set[t] = true
		}
		c.topics[ind.Name] = set
	}
	return &c, nil
}

func (c *Catalog) HasIndustry(name string) bool {
	_, ok := c.topics[name]
	return ok
}

// HasTopic reports whether topic belongs to the given industry
func (c *Catalog) HasTopic(industry, topic string) bool {
	return c.topics[industry][topic]
}

func (c *Catalog) HasType(t string) bool {
	return contains(c.Types, t)
}

func (c *Catalog) HasDifficulty(d string) bool {
	return contains(c.Difficulties, d)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
