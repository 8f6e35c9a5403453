package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/maq/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed options.schema.json
var optionsSchemaJSON string

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var optionsSchema = mustCompileSchema(optionsSchemaJSON, "options.schema.json")

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Load reads a YAML options document from path.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options file: %w", err)
	}
	opts, err := ParseYAML(data)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// ParseYAML validates a YAML options document against the options schema
// and applies it on top of Default. An empty document yields the defaults.
func ParseYAML(data []byte) (Options, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Options{}, fmt.Errorf("%w: options YAML: %v", models.ErrInvalidInput, err)
	}
	if doc == nil {
		return Default(), nil
	}
	if err := validateDocument(doc); err != nil {
		return Options{}, err
	}

	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: options YAML: %v", models.ErrInvalidInput, err)
	}
	return opts, opts.Validate()
}

// FromMap decodes loosely typed options, such as parameters forwarded by
// a caller, on top of Default.
func FromMap(m map[string]any) (Options, error) {
	if err := validateDocument(m); err != nil {
		return Options{}, err
	}

	opts := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Options{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return opts, opts.Validate()
}

func validateDocument(doc any) error {
	errs := validateAgainstSchema(optionsSchema, doc)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: options: %s", models.ErrInvalidInput, strings.Join(errs, "; "))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
