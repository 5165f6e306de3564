package internal

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/BurntSushi/toml"
)

const (
	KeyAppFramework = "includeAngular"
	KeyResponsive   = "includeResponsive"
	KeyFramework    = "frameworkType"
	KeyExtras       = "otherIncludes"
)

const (
	KindConfirm     = "confirm"
	KindSelect      = "select"
	KindMultiSelect = "multiselect"
)

//go:embed prompts.toml
var promptData string

type Prompt struct {
	Name    string   `toml:"name" binding:"required"`
	Kind    string   `toml:"kind" binding:"required"`
	Prompt  string   `toml:"prompt" binding:"required"`
	Default string   `toml:"default"`
	Choices []string `toml:"choices,omitempty"`
	// When names an earlier confirm prompt, this prompt is only asked when
	// that prompt was answered yes.
	When string `toml:"when"`
}

type Prompts struct {
	Prompts []Prompt `toml:"prompt"`
}

func (ps *Prompts) find(name string) (Prompt, bool) {
	for _, p := range ps.Prompts {
		if p.Name == name {
			return p, true
		}
	}
	return Prompt{}, false
}

// Prompter asks a single question of the user.
type Prompter interface {
	Confirm(p Prompt, def bool) (bool, error)
	Select(p Prompt, def string) (string, error)
	MultiSelect(p Prompt, def []string) ([]string, error)
}

// SurveyPrompter asks questions on a terminal.
type SurveyPrompter struct {
	Stdio terminal.Stdio
}

func NewSurveyPrompter() SurveyPrompter {
	return SurveyPrompter{
		Stdio: terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
	}
}

func (s SurveyPrompter) options() []survey.AskOpt {
	return []survey.AskOpt{survey.WithStdio(s.Stdio.In, s.Stdio.Out, s.Stdio.Err)}
}

func (s SurveyPrompter) Confirm(p Prompt, def bool) (bool, error) {
	var result bool
	err := survey.AskOne(&survey.Confirm{
		Message: p.Prompt,
		Default: def,
	}, &result, s.options()...)
	return result, err
}

func (s SurveyPrompter) Select(p Prompt, def string) (string, error) {
	var result string
	q := &survey.Select{
		Message: p.Prompt,
		Options: p.Choices,
	}
	if contains(p.Choices, def) {
		q.Default = def
	}
	err := survey.AskOne(q, &result, s.options()...)
	return result, err
}

func (s SurveyPrompter) MultiSelect(p Prompt, def []string) ([]string, error) {
	result := []string{}
	q := &survey.MultiSelect{
		Message: p.Prompt,
		Options: p.Choices,
	}
	if len(def) > 0 {
		q.Default = def
	}
	err := survey.AskOne(q, &result, s.options()...)
	return result, err
}

// ReadPrompts decodes the generator's question set.
func ReadPrompts() (*Prompts, error) {
	return decodePrompts(promptData, "prompts.toml")
}

func decodePrompts(data string, name string) (*Prompts, error) {
	prompts := Prompts{}
	if _, err := toml.Decode(data, &prompts); err != nil {
		return nil, fmt.Errorf("%s file does not match required format: %s", name, err)
	}

	asked := map[string]string{}
	for _, prompt := range prompts.Prompts {
		switch prompt.Kind {
		case KindConfirm:
		case KindSelect, KindMultiSelect:
			if len(prompt.Choices) == 0 {
				return nil, fmt.Errorf("%s file: prompt %s has no choices", name, prompt.Name)
			}
		default:
			return nil, fmt.Errorf("%s file: prompt %s has unknown kind %q", name, prompt.Name, prompt.Kind)
		}
		if prompt.When != "" && asked[prompt.When] != KindConfirm {
			return nil, fmt.Errorf("%s file: prompt %s depends on %s which is not an earlier confirm prompt", name, prompt.Name, prompt.When)
		}
		asked[prompt.Name] = prompt.Kind
	}

	return &prompts, nil
}

// ReadOverrides reads pre-answered questions from a TOML file.  Values may be
// booleans, strings or arrays of strings.
func ReadOverrides(name string) (map[string]string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s", name)
	}

	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%s file does not match required format: %s", name, err)
	}

	overrides := map[string]string{}
	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%s file: %s: %s", name, k, err)
		}
		overrides[k] = s
	}
	return overrides, nil
}

func stringify(v interface{}) (string, error) {
	switch value := v.(type) {
	case string:
		return value, nil
	case bool:
		return strconv.FormatBool(value), nil
	case []string:
		return strings.Join(value, ","), nil
	case []interface{}:
		items := []string{}
		for _, item := range value {
			s, err := stringify(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ","), nil
	}
	return "", fmt.Errorf("unsupported value %v", v)
}

// Collect asks every visible prompt in order and builds the answers.
// Prompts with an override are not asked.  No prompt is ever revisited.
func Collect(prompter Prompter, prompts *Prompts, overrides map[string]string, defaults map[string]interface{}) (Answers, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := prompts.find(k); !ok {
			return Answers{}, fmt.Errorf("%w: unknown question %q", ErrInvalidAnswers, k)
		}
	}

	values := map[string]interface{}{}
	for _, prompt := range prompts.Prompts {
		if prompt.When != "" {
			if shown, _ := values[prompt.When].(bool); !shown {
				continue
			}
		}

		if override, exists := overrides[prompt.Name]; exists {
			value, err := parseValue(prompt, override)
			if err != nil {
				return Answers{}, err
			}
			values[prompt.Name] = value
			continue
		}

		def, err := defaultValue(prompt, defaults)
		if err != nil {
			return Answers{}, err
		}
		value, err := ask(prompter, prompt, def)
		if err != nil {
			return Answers{}, fmt.Errorf("%w: %s: %s", ErrAbortedInput, prompt.Name, err)
		}
		values[prompt.Name] = value
	}

	return toAnswers(values)
}

func ask(prompter Prompter, prompt Prompt, def interface{}) (interface{}, error) {
	switch prompt.Kind {
	case KindConfirm:
		return prompter.Confirm(prompt, def.(bool))
	case KindSelect:
		return prompter.Select(prompt, def.(string))
	default:
		return prompter.MultiSelect(prompt, def.([]string))
	}
}

func defaultValue(prompt Prompt, defaults map[string]interface{}) (interface{}, error) {
	raw := prompt.Default
	if v, ok := defaults[prompt.Name]; ok {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%w: default for %s: %s", ErrInvalidAnswers, prompt.Name, err)
		}
		raw = s
	}

	if raw == "" {
		switch prompt.Kind {
		case KindConfirm:
			return false, nil
		case KindSelect:
			return "", nil
		default:
			return []string{}, nil
		}
	}
	return parseValue(prompt, raw)
}

// parseValue converts a textual answer to the value type of the prompt.
// Choices are matched case-insensitively and normalised to their declared
// spelling.
func parseValue(prompt Prompt, raw string) (interface{}, error) {
	switch prompt.Kind {
	case KindConfirm:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidAnswers, prompt.Name, raw)
		}
		return b, nil
	case KindSelect:
		return matchChoice(prompt, strings.TrimSpace(raw))
	default:
		result := []string{}
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			choice, err := matchChoice(prompt, item)
			if err != nil {
				return nil, err
			}
			result = append(result, choice)
		}
		return result, nil
	}
}

func matchChoice(prompt Prompt, s string) (string, error) {
	for _, c := range prompt.Choices {
		if strings.EqualFold(c, s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidAnswers, prompt.Name, strings.Join(prompt.Choices, ", "), s)
}

func toAnswers(values map[string]interface{}) (Answers, error) {
	appFramework, _ := values[KeyAppFramework].(bool)
	responsive, _ := values[KeyResponsive].(bool)

	framework := FrameworkNone
	if name, ok := values[KeyFramework].(string); ok {
		f, err := ParseFramework(name)
		if err != nil {
			return Answers{}, err
		}
		framework = f
	}

	extras := []Feature{}
	if names, ok := values[KeyExtras].([]string); ok {
		for _, name := range names {
			f, err := ParseFeature(name)
			if err != nil {
				return Answers{}, err
			}
			extras = append(extras, f)
		}
	}

	return NewAnswers(appFramework, responsive, framework, extras...)
}

func contains(strings []string, element string) bool {
	for _, s := range strings {
		if s == element {
			return true
		}
	}
	return false
}
