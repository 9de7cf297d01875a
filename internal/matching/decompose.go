package matching

import "strings"

// NameComponents is the structured form of an Arabic patronymic name.
// Parsing is total: a name that does not fit the grammar still yields a
// partial structure, never an error.
type NameComponents struct {
	FirstName       string
	FatherName      string
	GrandfatherName string
	FamilyName      string
	OtherParts      []string
}

// relationParticles are the "son of" tokens linking a name to the father's.
var relationParticles = map[string]bool{
	"بن":  true,
	"ابن": true,
}

// kunyaPrefixes open an honorific ("father of" / "mother of"). The
// possessive spelling is already folded to the nominative by normalization.
var kunyaPrefixes = map[string]bool{
	"ابو": true,
	"ام":  true,
}

// familyPrefix is the definite article opening family and tribal names.
const familyPrefix = "ال"

// DecomposeName parses a raw Arabic name into its components. The input is
// normalized first; tokens of a single rune are discarded as noise.
func DecomposeName(arabicName string) NameComponents {
	var c NameComponents

	all := strings.Fields(NormalizeArabic(arabicName))
	tokens := all[:0]
	for _, tok := range all {
		if len([]rune(tok)) > 1 {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return c
	}

	// The first name is either the token after a leading kunya prefix, or
	// everything before the first relationship particle.
	i := 0
	if kunyaPrefixes[tokens[0]] && len(tokens) > 1 {
		c.FirstName = tokens[1]
		i = 2
	} else {
		particleAt := -1
		for j, tok := range tokens {
			if relationParticles[tok] {
				particleAt = j
				break
			}
		}
		if particleAt == -1 {
			c.FirstName = strings.Join(tokens, " ")
			return c
		}
		c.FirstName = strings.Join(tokens[:particleAt], " ")
		i = particleAt
	}

	// Consume particle+name pairs: father, then grandfather, then the rest
	// of the lineage chain.
	pairs := 0
	for i < len(tokens) {
		tok := tokens[i]

		if relationParticles[tok] {
			if i+1 >= len(tokens) {
				break // dangling particle
			}
			name := tokens[i+1]
			pairs++
			switch pairs {
			case 1:
				c.FatherName = name
			case 2:
				c.GrandfatherName = name
			default:
				c.OtherParts = append(c.OtherParts, name)
			}
			i += 2
			continue
		}

		// A free-standing token is a family name candidate when it carries
		// the definite article, or when it is the trailing token of a name
		// with no grandfather. Only the first candidate is kept.
		isLast := i == len(tokens)-1
		if c.FamilyName == "" && (strings.HasPrefix(tok, familyPrefix) || (isLast && c.GrandfatherName == "")) {
			c.FamilyName = tok
		} else {
			c.OtherParts = append(c.OtherParts, tok)
		}
		i++
	}

	return c
}
