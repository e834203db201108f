package doi

// BaseURL is the journals site root used to build document URLs.
const BaseURL = "https://journals.plos.org"

// DefaultSite is the journal site used when a code has no table entry.
// Annotation DOIs also resolve here by convention.
const DefaultSite = "plosone"

// journalSites maps the 4-letter journal code to its site slug.
// Keep sorted by code.
var journalSites = map[string]string{
	"pbio": "plosbiology",
	"pcbi": "ploscompbiol",
	"pctr": "plosclinicaltrials",
	"pdig": "plosdigitalhealth",
	"pgen": "plosgenetics",
	"pgph": "globalpublichealth",
	"pmed": "plosmedicine",
	"pntd": "plosntds",
	"pone": "plosone",
	"ppat": "plospathogens",
	"pstr": "sustainabilitytransformation",
	"pwat": "water",
}

// JournalNames maps the 4-letter journal code to the full journal title
// as it appears in document metadata.
var JournalNames = map[string]string{
	"pbio": "PLOS Biology",
	"pcbi": "PLOS Computational Biology",
	"pctr": "PLOS Clinical Trials",
	"pdig": "PLOS Digital Health",
	"pgen": "PLOS Genetics",
	"pgph": "PLOS Global Public Health",
	"pmed": "PLOS Medicine",
	"pntd": "PLOS Neglected Tropical Diseases",
	"pone": "PLOS ONE",
	"ppat": "PLOS Pathogens",
	"pstr": "PLOS Sustainability and Transformation",
	"pwat": "PLOS Water",
}

// JournalSite resolves the journal site slug for a DOI.
//
// Annotation DOIs resolve to the default site with no error. A regular
// DOI whose code has no table entry also resolves to the default site,
// but the miss is reported via ErrUnknownJournal rather than masked.
func JournalSite(d string) (string, error) {
	if IsAmendment(d) {
		return DefaultSite, nil
	}
	code := JournalCode(d)
	if site, ok := journalSites[code]; ok {
		return site, nil
	}
	return DefaultSite, &UnknownJournalError{Code: code, DOI: d}
}
