package annotation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrInvalidPattern is returned when a pattern override does not compile.
var ErrInvalidPattern = errors.New("annotation: invalid pattern")

// defaultPatterns follow the identifiers.org namespace patterns.
var defaultPatterns = map[string]string{
	// metabolites
	"pubchem.compound":  `^\d+$`,
	"kegg.compound":     `^C\d+$`,
	"seed.compound":     `^cpd\d+$`,
	"inchi_key":         `^[A-Z]{14}-[A-Z]{10}(-[A-Z])?$`,
	"inchi":             `^InChI=1S?/[A-Za-z0-9.]+(\+[0-9]+)?(/[cnpqbtmsih][A-Za-z0-9\-+(),/?;.]+)*$`,
	"chebi":             `^CHEBI:\d+$`,
	"hmdb":              `^HMDB\d+$`,
	"reactome":          `(^R-[A-Z]{3}-[0-9]+(-[0-9]+)?$)|(^REACT_\d+(\.\d+)?$)`,
	"metanetx.chemical": `^MNXM\d+$`,
	"bigg.metabolite":   `^[a-z_A-Z0-9]+$`,
	"biocyc":            `^[A-Z-0-9]+:?[A-Za-z0-9+_.%-]+$`,

	// reactions
	"rhea":              `^\d{5}$`,
	"kegg.reaction":     `^R\d+$`,
	"seed.reaction":     `^rxn\d+$`,
	"metanetx.reaction": `^MNXR\d+$`,
	"bigg.reaction":     `^[a-z_A-Z0-9]+$`,
	"ec-code":           `^(\d+\.-\.-\.-|\d+\.\d+\.-\.-|\d+\.\d+\.\d+\.-|\d+\.\d+\.\d+\.n?\d+)$`,

	// genes
	"refseq":      `^((AC|AP|NC|NG|NM|NP|NR|NT|NW|XM|XP|XR|YP|ZP)_\d+|(NZ_[A-Z]{4}\d+))(\.\d+)?$`,
	"uniprot":     `^([A-N,R-Z][0-9]([A-Z][A-Z, 0-9][A-Z, 0-9][0-9]){1,2})|([O,P,Q][0-9][A-Z, 0-9][A-Z, 0-9][A-Z, 0-9][0-9])(\.\d+)?$`,
	"ncbigene":    `^\d+$`,
	"ncbiprotein": `^(\w+\d+(\.\d+)?)|(NP_\d+)$`,
	"kegg.genes":  `^\w+:[\w\d.-]*$`,
	"ccds":        `^CCDS\d+\.\d+$`,
	"hprd":        `^\d+$`,
	"asap":        `^[A-Za-z0-9-]+$`,

	"sbo": `^SBO:\d{7}$`,
}

// Patterns maps a database to the regular expression its identifiers
// must match.
type Patterns map[string]*regexp.Regexp

// DefaultPatterns returns the built-in patterns.
func DefaultPatterns() Patterns {
	p := make(Patterns, len(defaultPatterns))
	for db, expr := range defaultPatterns {
		p[db] = regexp.MustCompile(expr)
	}

	return p
}

// CompilePatterns overlays overrides on DefaultPatterns.
// Errors: ErrInvalidPattern naming the database.
func CompilePatterns(overrides map[string]string) (Patterns, error) {
	p := DefaultPatterns()
	for db, expr := range overrides {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, db, err)
		}
		p[db] = re
	}

	return p, nil
}

// Databases returns the databases with a pattern, sorted.
func (p Patterns) Databases() []string {
	out := make([]string, 0, len(p))
	for db := range p {
		out = append(out, db)
	}
	sort.Strings(out)

	return out
}

// Nonconforming maps each database to the IDs of items holding at least
// one identifier that does not match its pattern. Databases without a
// pattern are skipped; databases with no offender are omitted.
func Nonconforming(items []Item, patterns Patterns) map[string][]string {
	out := make(map[string][]string)
	for _, it := range items {
		for _, db := range it.Annotations.Databases() {
			re, ok := patterns[db]
			if !ok {
				continue
			}
			for _, id := range it.Annotations[db] {
				if !re.MatchString(id) {
					out[db] = append(out[db], it.ID)
					break
				}
			}
		}
	}

	return out
}
