package aamva

import "sort"

// Role identifies one logical field of a license payload.
type Role int

const (
	RoleFirstName Role = iota
	RoleMiddleName
	RoleLastName
	RoleFullName
	RoleGivenNames
	RoleAddress1
	RoleAddress2
	RoleCity
	RoleState
	RoleZip
	RoleCountry
	RoleLicenseNumber
	RoleDateOfBirth
)

// roleCodes maps each role to its candidate designators, tried in order.
var roleCodes = map[Role][]string{
	RoleFirstName:     {"DAC", "DCT"},
	RoleMiddleName:    {"DAD"},
	RoleLastName:      {"DCS", "DAB"},
	RoleFullName:      {"DAA"},
	RoleGivenNames:    {"DCT"},
	RoleAddress1:      {"DAG"},
	RoleAddress2:      {"DAH"},
	RoleCity:          {"DAI"},
	RoleState:         {"DAJ"},
	RoleZip:           {"DAK"},
	RoleCountry:       {"DCG"},
	RoleLicenseNumber: {"DAQ"},
	RoleDateOfBirth:   {"DBB", "D8", "D8A"},
}

// knownCodes is the closed set of designators the trimmer recognises inside a value.
var knownCodes = []string{
	// personal data A
	"DAA", "DAB", "DAC", "DAD", "DAE", "DAF", "DAG", "DAH", "DAI", "DAJ", "DAK",
	"DAL", "DAM", "DAN", "DAO", "DAP", "DAQ", "DAR", "DAS", "DAU", "DAV", "DAW",
	"DAX", "DAY", "DAZ",
	// personal data B
	"DBA", "DBB", "DBC", "DBD", "DBE", "DBF", "DBG", "DBH", "DBI", "DBJ", "DBK",
	"DBL", "DBM", "DBN", "DBO", "DBP", "DBQ", "DBR", "DBS",
	// personal data C
	"DCA", "DCB", "DCD", "DCE", "DCF", "DCG", "DCH", "DCI", "DCJ", "DCK", "DCL",
	"DCM", "DCN", "DCO", "DCP", "DCQ", "DCR", "DCS", "DCT", "DCU",
	// personal data D
	"DDA", "DDB", "DDC", "DDD", "DDE", "DDF", "DDG", "DDH", "DDI", "DDJ", "DDK",
	"DDL",
	// jurisdiction subfile
	"ZNA", "ZNB", "ZNC", "ZND", "ZNE", "ZNF", "ZNG", "ZNH", "ZNI",
}

// reusedPrefix is the prefix class whose codes collide with letter pairs that end real names.
const reusedPrefix = "DA"

// prefixPriority orders prefix classes for cut-point tie breaks. Prefixes not listed
// rank after every listed one except reusedPrefix, which is always last.
var prefixPriority = map[string]int{
	"DB": 0,
	"DC": 1,
	"DD": 2,
	"D8": 3,
}

const (
	otherPrefixRank  = 4
	reusedPrefixRank = 5
)

// forceTrimCodes are reused-prefix designators that never occur as natural text.
var forceTrimCodes = map[string]bool{
	"DAQ": true,
	"DAJ": true,
	"DAK": true,
	"DAU": true,
	"DAW": true,
	"DAZ": true,
}

// trimExceptions are all-letter word endings that make a following reused-prefix code part
// of the word (e.g. MCDANIEL).
var trimExceptions = []string{"MC", "MAC", "ST"}

// minWordBeforeBleed is the shortest word fragment a reused-prefix code is cut from. A
// single leading letter is the start of a word (ADAMS), not a finished value.
const minWordBeforeBleed = 2

// indicators are substrings that mark text as belonging to this payload family.
var indicators = []string{"ANSI", "DAQ", "DL", "@", "DBB", "D8", "DCS", "DAG", "DAA"}

// licenseTrailingCodes commonly follow a license number with no delimiter.
var licenseTrailingCodes = []string{
	"DCF", "DCG", "DCH", "DCI", "DCJ", "DCK", "DCL", "DCM", "DCN", "DCO", "DCP", "DCQ", "DCR",
	"DDA", "DDB", "DDC", "DDD", "DDE", "DDF", "DDG", "DDH", "DDI", "DDJ", "DDK", "DDL", "DDM",
	"DDN", "DDO", "DDP", "DDQ", "DDR", "DDS", "DDT", "DDU", "DDV", "DDW", "DDX", "DDY", "DDZ",
	"DAU", "DAV", "DAW", "DAY", "DAZ", "ZNB", "ZNC", "ZND", "ZNE", "ZNF", "ZNG", "ZNH", "ZNI",
}

// statePrefixes may follow a two-letter state code that bled into the next field.
var statePrefixes = []string{"DA", "DB", "DC", "DD", "D8"}

// codesByPriority holds knownCodes sorted by prefix rank, built once.
var codesByPriority = sortedByPriority(knownCodes)

func prefixRank(code string) int {
	prefix := code[:2]
	if prefix == reusedPrefix {
		return reusedPrefixRank
	}
	if rank, ok := prefixPriority[prefix]; ok {
		return rank
	}
	return otherPrefixRank
}

func sortedByPriority(codes []string) []string {
	out := make([]string, len(codes))
	copy(out, codes)
	sort.SliceStable(out, func(i, j int) bool {
		return prefixRank(out[i]) < prefixRank(out[j])
	})
	return out
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isDesignatorAt reports whether s has a designator-looking token ([DZ][A-Z]{2}) at i.
func isDesignatorAt(s string, i int) bool {
	if i < 0 || i+3 > len(s) {
		return false
	}
	return (s[i] == 'D' || s[i] == 'Z') && isUpper(s[i+1]) && isUpper(s[i+2])
}

// containsDesignator reports whether s contains a designator-looking token anywhere.
func containsDesignator(s string) bool {
	for i := 0; i+3 <= len(s); i++ {
		if isDesignatorAt(s, i) {
			return true
		}
	}
	return false
}
