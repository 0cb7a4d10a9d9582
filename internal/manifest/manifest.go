// Package manifest parses Solbuild.toml, the project description that drives
// a compile: contract sources, remappings, library addresses and output
// selection. Tables may carry conditional sub-tables keyed by expressions
// over the build environment, and strings may interpolate {{...}}
// expressions.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// Filename is the manifest file name looked up in the project root.
const Filename = "Solbuild.toml"

var defaultProfiles = map[string]ProfileSection{
	// debug inherits whatever [output] selects
	"debug": {},
	"release": {
		Artifacts: []string{"abi", "bin", "metadata"},
	},
}

// fallback selection when neither [output] nor the profile names artifacts
var defaultArtifacts = []string{"abi", "bin"}

type Config struct {
	Package  PackageSection            `toml:"package"`
	Contract ContractSection           `toml:"contract"`
	Output   OutputSection             `toml:"output"`
	Profile  map[string]ProfileSection `toml:"profile"`
}

// Profiles returns the known profile names, sorted.
func (c Config) Profiles() []string {
	profiles := make([]string, 0, len(c.Profile))
	for k := range c.Profile {
		profiles = append(profiles, k)
	}
	slices.Sort(profiles)
	return profiles
}

// PackageSection defines the [package] section
type PackageSection struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
	Prebuild    string   `toml:"prebuild"`
}

// ContractSection defines the [contract] section
type ContractSection struct {
	Sources    []string          `toml:"sources"`
	AllowPaths []string          `toml:"allow-paths"`
	Remappings map[string]string `toml:"remappings"`
	Libraries  map[string]string `toml:"libraries"`
}

// OutputSection defines the [output] section
type OutputSection struct {
	Dir       string   `toml:"dir"`
	Overwrite bool     `toml:"overwrite"`
	Mode      string   `toml:"mode"`
	Artifacts []string `toml:"artifacts"`
}

// ProfileSection defines the [profile.*] section; a profile overrides the
// output mode and artifact selection
type ProfileSection struct {
	Mode      string   `toml:"mode"`
	Artifacts []string `toml:"artifacts"`
}

// Outputs resolves the output mode and artifact list for a profile. Profile
// settings win over the [output] section; either may be partial.
func (c Config) Outputs(profile string) (mode string, artifacts []string, err error) {
	prof, ok := c.Profile[profile]
	if !ok {
		return "", nil, fmt.Errorf("unknown profile %q, known profiles: %s", profile, strings.Join(c.Profiles(), ", "))
	}

	mode, artifacts = c.Output.Mode, c.Output.Artifacts
	if prof.Mode != "" {
		mode = prof.Mode
	}
	if len(prof.Artifacts) > 0 {
		artifacts = prof.Artifacts
	}
	if mode == "" {
		mode = "separate"
	}
	if len(artifacts) == 0 {
		artifacts = defaultArtifacts
	}
	return mode, artifacts, nil
}

// mergeStructs merges the fields of the src struct into the dst struct
func mergeStructs(dst, src any) error {
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Pointer || dstVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dst must be a pointer to a struct")
	}

	dstElem := dstVal.Elem()
	srcVal := reflect.ValueOf(src)

	if srcVal.Kind() == reflect.Pointer {
		srcVal = srcVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct {
		return fmt.Errorf("src must be a struct or a pointer to a struct")
	}

	if dstElem.Type() != srcVal.Type() {
		return fmt.Errorf("dst and src must be of the same struct type")
	}

	for i := range srcVal.NumField() {
		srcField := srcVal.Field(i)
		dstField := dstElem.Field(i)

		if !dstField.CanSet() {
			continue
		}

		switch dstField.Kind() {
		case reflect.Slice:
			if !srcField.IsNil() {
				dstField.Set(reflect.AppendSlice(dstField, srcField))
			}
		case reflect.Map:
			if !srcField.IsNil() {
				if dstField.IsNil() {
					dstField.Set(reflect.MakeMap(dstField.Type()))
				}
				for _, key := range srcField.MapKeys() {
					dstField.SetMapIndex(key, srcField.MapIndex(key))
				}
			}
		case reflect.Bool:
			dstField.SetBool(dstField.Bool() || srcField.Bool())
		default:
			if !srcField.IsZero() {
				dstField.Set(srcField)
			}
		}
	}

	return nil
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection is a helper to parse sections without conditional logic
func unmarshalSection(rawCfg map[string]any, name string, dst any) error {
	if data, ok := rawCfg[name]; ok {
		if err := toml.Unmarshal([]byte(mustMarshal(data)), dst); err != nil {
			return fmt.Errorf("failed to parse [%s] section: %w", name, err)
		}
	}
	return nil
}

// unmarshalConditionalSection is a helper to parse, evaluate and merge multiple sections with conditional logic
func unmarshalConditionalSection[T any](rawCfg map[string]any, name string, dst *T, env Env) error {
	sectionData, ok := rawCfg[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	baseFields := make(map[string]any)
	conditionalFields := make(map[string]map[string]any)

	for key, val := range sectionMap {
		if subMap, ok := val.(map[string]any); ok {
			// a sub-table keyed by a compilable expression is a conditional
			if _, err := expr.Compile(key, expr.Env(env)); err == nil {
				conditionalFields[key] = subMap
				continue
			}
		}
		baseFields[key] = val
	}

	if len(baseFields) > 0 {
		if err := toml.Unmarshal([]byte(mustMarshal(baseFields)), dst); err != nil {
			return fmt.Errorf("failed to parse base [%s] section: %w", name, err)
		}
	}

	for expression, condMap := range conditionalFields {
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return fmt.Errorf("failed to compile expression for [%s.%q]: %w", name, expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("failed to run expression for [%s.%q]: %w", name, expression, err)
		}

		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		var condSection T
		if err := toml.Unmarshal([]byte(mustMarshal(condMap)), &condSection); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, expression, err)
		}
		if err := mergeStructs(dst, condSection); err != nil {
			return fmt.Errorf("failed to merge conditional section [%s.%q]: %w", name, expression, err)
		}
	}

	return nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env Env) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, matchIndexes := range matches {
		builder.WriteString(s[lastIndex:matchIndexes[0]])

		expression := strings.TrimSpace(s[matchIndexes[2]:matchIndexes[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		builder.WriteString(fmt.Sprintf("%v", result))
		lastIndex = matchIndexes[1]
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}

// processExpressions recursively walks the parsed TOML data and evaluates expressions in strings
func processExpressions(data any, env Env) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processedVal, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processedVal
		}
		return v, nil
	case []any:
		for i, item := range v {
			processedItem, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processedItem
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}

func Parse(rdr io.Reader, env Env) (*Config, error) {
	var rawConfig map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&rawConfig); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processedConfig, err := processExpressions(rawConfig, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in manifest: %w", err)
	}
	rawConfig = processedConfig.(map[string]any)

	cfg := new(Config)
	cfg.Profile = make(map[string]ProfileSection, len(defaultProfiles))
	for name, prof := range defaultProfiles {
		cfg.Profile[name] = prof
	}

	if err := unmarshalSection(rawConfig, "package", &cfg.Package); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(rawConfig, "contract", &cfg.Contract, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(rawConfig, "output", &cfg.Output, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalSection(rawConfig, "profile", &cfg.Profile, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseFile parses a manifest from a filepath
func ParseFile(path string, env Env) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(bufio.NewReader(f), env)
}

// RunPrebuild evaluates the [package] prebuild script, if any. The script
// must evaluate to true; anything else fails the compile.
func (c Config) RunPrebuild(env Env) error {
	if c.Package.Prebuild == "" {
		return nil
	}

	program, err := expr.Compile(c.Package.Prebuild, expr.Env(env))
	if err != nil {
		return fmt.Errorf("failed to compile prebuild script for %q: %w", c.Package.Name, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return fmt.Errorf("failed to run prebuild script for %q: %w", c.Package.Name, err)
	}

	if result, ok := result.(bool); !ok || !result {
		return fmt.Errorf("prebuild script for %q returned false\n%s", c.Package.Name, c.Package.Prebuild)
	}

	return nil
}
