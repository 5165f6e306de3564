package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Framework is the responsive CSS framework a project is built on.
type Framework int

const (
	FrameworkNone Framework = iota
	FrameworkBootstrap
	FrameworkFoundation
)

var frameworkNames = map[Framework]string{
	FrameworkNone:       "",
	FrameworkBootstrap:  "Bootstrap",
	FrameworkFoundation: "Foundation",
}

var frameworkPackages = map[Framework]string{
	FrameworkBootstrap:  "bootstrap-sass",
	FrameworkFoundation: "foundation",
}

func (f Framework) String() string {
	return frameworkNames[f]
}

// Package is the front-end package providing the framework, empty for
// FrameworkNone.
func (f Framework) Package() string {
	return frameworkPackages[f]
}

// ParseFramework accepts a framework name in any case.  The empty string is
// FrameworkNone.
func ParseFramework(s string) (Framework, error) {
	for f, name := range frameworkNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return FrameworkNone, fmt.Errorf("%w: unknown framework %q", ErrInvalidAnswers, s)
}

// Feature is an optional extra added to the project.
type Feature int

const (
	FeatureStyleGuide Feature = iota
	FeatureTests
)

func (f Feature) String() string {
	switch f {
	case FeatureStyleGuide:
		return "StyleGuide"
	case FeatureTests:
		return "Tests"
	}
	return fmt.Sprintf("Feature(%d)", int(f))
}

func ParseFeature(s string) (Feature, error) {
	for _, f := range []Feature{FeatureStyleGuide, FeatureTests} {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown feature %q", ErrInvalidAnswers, s)
}

// Answers records everything the user chose for one run.  It is built once
// by Collect or NewAnswers and never changes afterwards.
type Answers struct {
	appFramework bool
	responsive   bool
	framework    Framework
	extras       []Feature
}

// NewAnswers validates a set of choices.  A framework can only be chosen for
// a responsive project and a responsive project always names one.
func NewAnswers(appFramework bool, responsive bool, framework Framework, extras ...Feature) (Answers, error) {
	if framework != FrameworkNone && !responsive {
		return Answers{}, fmt.Errorf("%w: framework %s chosen for a non-responsive site", ErrInvalidAnswers, framework)
	}
	if responsive && framework == FrameworkNone {
		return Answers{}, fmt.Errorf("%w: a responsive site needs a framework", ErrInvalidAnswers)
	}
	if _, ok := frameworkNames[framework]; !ok {
		return Answers{}, fmt.Errorf("%w: unknown framework %d", ErrInvalidAnswers, int(framework))
	}

	seen := map[Feature]bool{}
	features := []Feature{}
	for _, f := range extras {
		if f != FeatureStyleGuide && f != FeatureTests {
			return Answers{}, fmt.Errorf("%w: unknown feature %d", ErrInvalidAnswers, int(f))
		}
		if !seen[f] {
			seen[f] = true
			features = append(features, f)
		}
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })

	return Answers{
		appFramework: appFramework,
		responsive:   responsive,
		framework:    framework,
		extras:       features,
	}, nil
}

func (a Answers) AppFramework() bool {
	return a.appFramework
}

func (a Answers) Responsive() bool {
	return a.responsive
}

func (a Answers) Framework() Framework {
	return a.framework
}

// Extras returns the chosen features in canonical order.
func (a Answers) Extras() []Feature {
	return append([]Feature{}, a.extras...)
}

func (a Answers) Has(f Feature) bool {
	for _, e := range a.extras {
		if e == f {
			return true
		}
	}
	return false
}
