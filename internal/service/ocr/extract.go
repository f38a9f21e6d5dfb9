package ocr

import (
	"regexp"
	"strings"
	"time"

	"online-voting/internal/domain"
)

// Fields are the best-effort values read off a voter ID card. Empty means
// not found.
type Fields struct {
	Name        string `json:"name"`
	FatherName  string `json:"father_name"`
	VoterNumber string `json:"voter_number"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
}

func (f Fields) Empty() bool {
	return f == Fields{}
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Name\s+of\s+Elector\s*[:|\s]\s*([A-Za-z .]+)`),
		regexp.MustCompile(`(?i)(?:Voter|Elector)['’]s\s+Name\s*[:|\s]\s*([A-Za-z .]+)`),
		regexp.MustCompile(`(?im)^[ \t]*Name[ \t]*[:|\s]\s*([A-Za-z .]+)`),
	}
	// labelledName catches "<word> Name: value" lines; the word is checked so
	// relatives' names are not taken as the holder's.
	labelledName = regexp.MustCompile(`(?i)([A-Za-z'’]*)[ \t]*Name[ \t]*[:|][ \t]*([A-Za-z .]+)`)

	fatherPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Father(?:['’]s)?\s*(?:Name)?\s*[:|\s]\s*([A-Za-z .]+)`),
		regexp.MustCompile(`(?i)Husband(?:['’]s)?\s*(?:Name)?\s*[:|\s]\s*([A-Za-z .]+)`),
		regexp.MustCompile(`(?im)^[ \t]*F[ \t]*[:|][ \t]*([A-Za-z .]+)`),
	}

	voterIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Voter\s+(?:ID|Number)|Electoral\s+Roll\s+No|EPIC\s+No|Card\s+No)[.:|\s]*([A-Z0-9]{6,12})`),
		regexp.MustCompile(`([A-Z]{3}[0-9]{7})`),
		regexp.MustCompile(`(?i)(?:ID\s+Number|ID\s+No)[.:|\s]*([A-Z0-9]{6,12})`),
	}

	dobPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:DOB|Date\s+of\s+Birth)[.:|\s]*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
		regexp.MustCompile(`(?i)(?:Born\s+on|Birth\s+Date)[.:|\s]*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
		regexp.MustCompile(`(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
	}
	dateSeparators = regexp.MustCompile(`[-/.]`)

	genderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Gender|Sex)[.:|/\s]*(Male|Female|Other)`),
		regexp.MustCompile(`(?i)(?:Gender|Sex)[.:|/\s]*([MF])\b`),
	}

	addressLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Address[.:|\s]*`),
		regexp.MustCompile(`(?i)(?:Resident|House)[.:|\s]*`),
	}
	addressEnd     = regexp.MustCompile(`(?i)Date|Gender|Sex|DOB|Voter|Electoral`)
	newlines       = regexp.MustCompile(`\n+`)
	spaces         = regexp.MustCompile(`\s+`)
	repeatedCommas = regexp.MustCompile(`,\s*,`)
)

// Extract reads voter fields from OCR text. It fails with
// domain.ErrExtractionFailed when no field at all could be found.
func Extract(text string) (Fields, error) {
	f := Fields{
		Name:        extractName(text),
		FatherName:  firstMatch(fatherPatterns, text),
		VoterNumber: firstMatch(voterIDPatterns, text),
		DateOfBirth: extractDOB(text, time.Now()),
		Gender:      extractGender(text),
		Address:     extractAddress(text),
	}
	if f.Empty() {
		return f, domain.ErrExtractionFailed
	}
	return f, nil
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func extractName(text string) string {
	if v := firstMatch(namePatterns, text); v != "" {
		return v
	}
	for _, m := range labelledName.FindAllStringSubmatch(text, -1) {
		label := strings.ToLower(m[1])
		if strings.HasPrefix(label, "father") || strings.HasPrefix(label, "husband") || strings.HasPrefix(label, "mother") {
			continue
		}
		if v := strings.TrimSpace(m[2]); v != "" {
			return v
		}
	}
	return ""
}

// extractDOB reads a day-first date and returns it as YYYY-MM-DD.
func extractDOB(text string, now time.Time) string {
	for _, p := range dobPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		parts := dateSeparators.Split(m[1], -1)
		if len(parts) != 3 {
			continue
		}
		day, month, year := pad2(parts[0]), pad2(parts[1]), parts[2]
		if len(year) == 2 {
			if year > "50" {
				year = "19" + year
			} else {
				year = now.Format("2006")[:2] + year
			}
		}
		return year + "-" + month + "-" + day
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func extractGender(text string) string {
	for _, p := range genderPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		g := strings.ToLower(m[1])
		switch g {
		case "m":
			return "Male"
		case "f":
			return "Female"
		}
		return strings.ToUpper(g[:1]) + g[1:]
	}
	return ""
}

func extractAddress(text string) string {
	for _, label := range addressLabels {
		loc := label.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		if end := addressEnd.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		rest = newlines.ReplaceAllString(rest, ", ")
		rest = spaces.ReplaceAllString(rest, " ")
		rest = repeatedCommas.ReplaceAllString(rest, ",")
		return strings.TrimSpace(rest)
	}
	return ""
}
