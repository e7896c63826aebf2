package emit

// GeneratedDir is the per-directory artifact folder used when artifacts are
// not written to a single directory.
const GeneratedDir = "__generated__"

// ImportPolicy decides how generated files import each other.
type ImportPolicy struct {
	// UseHaste imports by bare module name from a global module namespace.
	UseHaste bool

	// UseSingleArtifactDirectory places every artifact in one directory, so
	// siblings are imported with "./".
	UseSingleArtifactDirectory bool
}

// Path returns the import specifier for a module name.
//
//	haste:              Module
//	single directory:   ./Module
//	distributed:        ../__generated__/Module
func (p ImportPolicy) Path(module string) string {
	switch {
	case p.UseHaste:
		return module
	case p.UseSingleArtifactDirectory:
		return "./" + module
	default:
		return "../" + GeneratedDir + "/" + module
	}
}

// FragmentModule returns the module name of a fragment's artifact.
func FragmentModule(fragment string) string {
	return fragment + ".graphql"
}
