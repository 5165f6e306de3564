package internal

import (
	"path"
	"strings"
)

// DevDir holds the sources of the generated site.
const DevDir = "dev"

const (
	MainStylesheet = DevDir + "/sass/main.scss"
	FooterPartial  = DevDir + "/partials/footer.hbs"
	HomePage       = DevDir + "/pages/home.hbs"
)

const (
	gridPackage      = "bourbon"
	frameworkPackage = "angular"
)

type CopyKind int

const (
	KindFile CopyKind = iota
	KindDirectory
	KindMkdir
)

func (k CopyKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "mkdir"
	}
}

// CopyOp copies Source from the template tree to Destination in the project.
// Paths are slash separated and relative.  KindMkdir ignores Source.
type CopyOp struct {
	Source      string
	Destination string
	Kind        CopyKind
}

// Plan is everything one run does to the project, in order.
type Plan struct {
	Answers       Answers
	Copies        []CopyOp
	Substitutions []Substitution
	Dependencies  []string
}

func file(src, dst string) CopyOp {
	return CopyOp{Source: src, Destination: dst, Kind: KindFile}
}

func dir(src, dst string) CopyOp {
	return CopyOp{Source: src, Destination: dst, Kind: KindDirectory}
}

func mkdir(dst string) CopyOp {
	return CopyOp{Destination: dst, Kind: KindMkdir}
}

func dev(name string) string {
	return path.Join(DevDir, name)
}

// Compose derives the plan for a set of answers.  It performs no I/O.
func Compose(a Answers) Plan {
	copies := []CopyOp{
		file("Gruntfile.js", "Gruntfile.js"),
		file("_package.json", "package.json"),
		file("_.bowerrc", ".bowerrc"),
		file("_bower.json", "bower.json"),
		file("editorconfig", ".editorconfig"),
		file("jshintrc", ".jshintrc"),
		file("sprites.mustache", "sprites.mustache"),
		file("404.html", dev("404.html")),
		file("favicon.ico", dev("favicon.ico")),
		file("robots.txt", dev("robots.txt")),
	}
	for _, d := range []string{"layouts", "partials", "pages", "_fonts", "sass", "images"} {
		copies = append(copies, dir(d, dev(d)))
	}
	copies = append(copies, mkdir(dev("images/sprites")), mkdir(dev("sass/components")))

	if a.AppFramework() {
		copies = append(copies, dir("app", dev("app")))
	} else {
		copies = append(copies, dir("scripts", dev("scripts")))
	}

	if a.Has(FeatureStyleGuide) {
		copies = append(copies, dir("styleguide", dev("styleguide")))
	}
	if a.Has(FeatureTests) {
		copies = append(copies, dir("test", dev("test")))
	}

	var deps []string
	switch fw := a.Framework(); {
	case !a.Responsive():
		copies = append(copies,
			mkdir(dev("sass/vendor")),
			file("additional_styles/_grid.scss", dev("sass/base/_grid.scss")),
		)
		deps = append(deps, gridPackage)
	case fw != FrameworkNone:
		name := "_" + strings.ToLower(fw.String()) + ".scss"
		copies = append(copies, file(path.Join("additional_styles", name), dev(path.Join("sass/vendor", name))))
		deps = append(deps, fw.Package())
	}
	if len(deps) > 0 && a.AppFramework() {
		deps = append(deps, frameworkPackage)
	}

	return Plan{
		Answers:       a,
		Copies:        copies,
		Substitutions: substitutions(a),
		Dependencies:  deps,
	}
}

func substitutions(a Answers) []Substitution {
	subs := []Substitution{
		{Target: MainStylesheet, Marker: FrameworkMarker, Produce: stylesheetImports},
	}
	if a.AppFramework() {
		subs = append(subs,
			Substitution{Target: FooterPartial, Marker: JQueryScript, Produce: appendFrameworkScript},
			Substitution{Target: FooterPartial, Marker: MainScript, Produce: appScript},
		)
	}
	return append(subs, Substitution{Target: HomePage, Marker: FeaturesMarker, Produce: featureList})
}
