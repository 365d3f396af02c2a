package aamva

import "strings"

// NameParts holds a person's name split into roles. Empty means unresolved.
type NameParts struct {
	First  string
	Middle string
	Last   string
}

// SplitFullName splits a single-field name. With a comma, the text before it is the
// last name and the tokens after it are first then middle names. Without one, the
// first token is the first name, the last token the last name, and anything between
// them the middle name.
func SplitFullName(full string) NameParts {
	var out NameParts
	full = NormalizeText(full)
	if full == "" {
		return out
	}

	if last, rest, ok := strings.Cut(full, ","); ok {
		out.Last = NormalizeText(last)
		bits := strings.Fields(NormalizeText(rest))
		if len(bits) > 0 {
			out.First = NormalizeText(bits[0])
			out.Middle = NormalizeText(strings.Join(bits[1:], " "))
		}
		return out
	}

	bits := strings.Fields(full)
	out.First = NormalizeText(bits[0])
	if len(bits) > 1 {
		out.Last = NormalizeText(bits[len(bits)-1])
		out.Middle = NormalizeText(strings.Join(bits[1:len(bits)-1], " "))
	}
	return out
}

// resolveNames reconciles the name designators of a normalized buffer.
func resolveNames(buf string) NameParts {
	names := NameParts{
		First:  extractField(buf, roleCodes[RoleFirstName]),
		Middle: extractField(buf, roleCodes[RoleMiddleName]),
		Last:   extractField(buf, roleCodes[RoleLastName]),
	}

	if names.Middle == "" && strings.Contains(names.First, " ") {
		parts := strings.Fields(names.First)
		names.First = parts[0]
		names.Middle = strings.Join(parts[1:], " ")
	}

	if full := extractField(buf, roleCodes[RoleFullName]); full != "" {
		names = fillMissing(names, SplitFullName(full))
	}

	if names.Middle == "" {
		given := strings.Fields(extractField(buf, roleCodes[RoleGivenNames]))
		if len(given) > 0 {
			if names.First == "" {
				names.First = given[0]
			}
			names.Middle = strings.Join(given[1:], " ")
		}
	}

	return NameParts{
		First:  NormalizeText(names.First),
		Middle: NormalizeText(names.Middle),
		Last:   NormalizeText(names.Last),
	}
}

func fillMissing(names, from NameParts) NameParts {
	if names.First == "" {
		names.First = from.First
	}
	if names.Middle == "" {
		names.Middle = from.Middle
	}
	if names.Last == "" {
		names.Last = from.Last
	}
	return names
}
