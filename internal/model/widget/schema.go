package widget

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://widget-chat.local/schemas/"

type schemaSet struct {
	byType map[Type]*jsonschema.Schema
}

var (
	schemasOnce sync.Once
	schemas     *schemaSet
)

func defaultSchemas() *schemaSet {
	schemasOnce.Do(func() {
		set, err := compileSchemas()
		if err != nil {
			panic(err)
		}
		schemas = set
	})
	return schemas
}

func compileSchemas() (*schemaSet, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	set := &schemaSet{byType: make(map[Type]*jsonschema.Schema, len(allTypes))}
	for _, t := range allTypes {
		data, err := schemaFS.ReadFile("schemas/" + string(t) + ".json")
		if err != nil {
			return nil, fmt.Errorf("widget schema %s missing: %w", t, err)
		}
		url := schemaBaseURL + string(t) + ".schema.json"
		if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("widget schema %s load failed: %w", t, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("widget schema %s compile failed: %w", t, err)
		}
		set.byType[t] = compiled
	}
	return set, nil
}

func (s *schemaSet) validate(t Type, raw []byte) error {
	schema, ok := s.byType[t]
	if !ok {
		return fmt.Errorf("no schema for %s", t)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
