package internal

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	FrameworkMarker = "// FRAMEWORK REPLACE"
	FeaturesMarker  = "{{!-- APP FEATURES --}}"
	JQueryScript    = `<script src="../assets/jquery/jquery.js"></script>`
	AngularScript   = `<script src="../assets/angular/angular.js"></script>`
	MainScript      = `<script src="../scripts/main.js"></script>`
	AppScript       = `<script src="../app/app.js"></script>`
)

var staticFeatures = []string{"Assemble templating", "Sass support", "Imagemin"}

var (
	gridTemplate = newTemplate("grid", `@import "../assets/{{ .Grid }}/app/assets/stylesheets/{{ .Grid }}";
@import "base/grid";`)
	vendorTemplate = newTemplate("vendor", `// Include {{ .Framework }}
@import "vendor/{{ lower .Framework }}";`)
	featureTemplate = newTemplate("features", "<ul>{{ range . }}\n\t\t\t<li>{{ . }}</li>{{ end }}\n\t\t</ul>")
)

func newTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text))
}

func render(tpl *template.Template, data interface{}) (string, error) {
	var out strings.Builder
	if err := tpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("cannot render %s: %w", tpl.Name(), err)
	}
	return out.String(), nil
}

// Substitution replaces the first occurrence of Marker in Target with the
// text produced from the answers.
type Substitution struct {
	Target  string
	Marker  string
	Produce func(Answers) (string, error)
}

func (s Substitution) Apply(content string, a Answers) (string, error) {
	if !strings.Contains(content, s.Marker) {
		return "", fmt.Errorf("%w: %q not found in %s", ErrSubstitutionTargetMissing, s.Marker, s.Target)
	}
	replacement, err := s.Produce(a)
	if err != nil {
		return "", fmt.Errorf("substituting %s: %w", s.Target, err)
	}
	return strings.Replace(content, s.Marker, replacement, 1), nil
}

// Rewrite applies, in order, every substitution aimed at target.
func Rewrite(target string, content string, subs []Substitution, a Answers) (string, error) {
	for _, s := range subs {
		if s.Target != target {
			continue
		}
		var err error
		if content, err = s.Apply(content, a); err != nil {
			return "", err
		}
	}
	return content, nil
}

// Targets lists the files touched by subs, in first-use order.
func Targets(subs []Substitution) []string {
	targets := []string{}
	for _, s := range subs {
		if !contains(targets, s.Target) {
			targets = append(targets, s.Target)
		}
	}
	return targets
}

func stylesheetImports(a Answers) (string, error) {
	if !a.Responsive() {
		return render(gridTemplate, map[string]string{"Grid": gridPackage})
	}
	return render(vendorTemplate, map[string]string{"Framework": a.Framework().String()})
}

func appendFrameworkScript(Answers) (string, error) {
	return JQueryScript + "\n\n" + AngularScript, nil
}

func appScript(Answers) (string, error) {
	return AppScript, nil
}

// FeatureItems lists the home page features: the static ones, then the app
// framework, the responsive framework and each extra.
func FeatureItems(a Answers) []string {
	items := append([]string{}, staticFeatures...)
	if a.AppFramework() {
		items = append(items, "Angular JS")
	}
	if a.Responsive() {
		items = append(items, a.Framework().String()+" framework")
	}
	for _, f := range a.Extras() {
		items = append(items, "Includes "+f.String())
	}
	return items
}

func featureList(a Answers) (string, error) {
	return render(featureTemplate, FeatureItems(a))
}
