package stubservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
)

// ErrUnreadable marks documents whose text layer could not be read. The
// service answers these with 400 instead of the in-band error shape.
var ErrUnreadable = errors.New("unreadable document")

// Analyzer produces the structured analysis of an uploaded PDF.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, data []byte) (api.ExtractedData, api.Feedback, error)
}

// AnalyzerFunc adapts a function to Analyzer
type AnalyzerFunc func(ctx context.Context, filename string, data []byte) (api.ExtractedData, api.Feedback, error)

// Analyze implements Analyzer
func (f AnalyzerFunc) Analyze(ctx context.Context, filename string, data []byte) (api.ExtractedData, api.Feedback, error) {
	return f(ctx, filename, data)
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// skill -> what to suggest next when it is missing
var knownSkills = []struct {
	name    string
	pitch   string
	keyword string
}{
	{"Go", "Widely used for cloud services and infrastructure tooling.", "golang"},
	{"Python", "The default language for data work and automation.", "python"},
	{"SQL", "Almost every backend role expects fluent querying.", "sql"},
	{"Docker", "Container packaging is a baseline deployment skill.", "docker"},
	{"Kubernetes", "Most container workloads are orchestrated with it.", "kubernetes"},
	{"AWS", "Cloud platform experience is requested in most postings.", "aws"},
	{"Terraform", "Infrastructure as code keeps environments reproducible.", "terraform"},
	{"React", "The most requested frontend library.", "react"},
	{"TypeScript", "Typed JavaScript is now the norm for frontend work.", "typescript"},
	{"Kafka", "Event streaming shows up in most data-heavy systems.", "kafka"},
}

// HeuristicAnalyzer is a deterministic stand-in for the model-backed
// analysis. It reads the PDF text layer and scores what it can find.
type HeuristicAnalyzer struct{}

// Analyze implements Analyzer
func (HeuristicAnalyzer) Analyze(ctx context.Context, _ string, data []byte) (api.ExtractedData, api.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return api.ExtractedData{}, api.Feedback{}, err
	}

	text, err := document.PlainText(data)
	if err != nil {
		return api.ExtractedData{}, api.Feedback{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return analyzeText(text)
}

func analyzeText(text string) (api.ExtractedData, api.Feedback, error) {
	if strings.TrimSpace(text) == "" {
		return api.ExtractedData{}, api.Feedback{}, errors.New("document has no text layer")
	}

	var extracted api.ExtractedData
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= 60 && !emailPattern.MatchString(line) {
			extracted.Name = api.Text(line)
			break
		}
	}
	extracted.Email = api.Text(emailPattern.FindString(text))
	extracted.Phone = api.Text(strings.TrimSpace(phonePattern.FindString(text)))

	lower := strings.ToLower(text)
	var missing []api.Suggestion
	for _, s := range knownSkills {
		if strings.Contains(lower, s.keyword) || containsWord(lower, strings.ToLower(s.name)) {
			extracted.CoreSkills = append(extracted.CoreSkills, api.Text(s.name))
			continue
		}
		missing = append(missing, api.Suggestion{Skill: api.Text(s.name), Explanation: api.Text(s.pitch)})
	}

	score := 3 + min(len(extracted.CoreSkills), 5)
	var gaps []string
	if extracted.Email == "" {
		gaps = append(gaps, "add a contact email")
	} else {
		score++
	}
	if extracted.Phone == "" {
		gaps = append(gaps, "add a phone number")
	} else {
		score++
	}
	if len(extracted.CoreSkills) < 3 {
		gaps = append(gaps, "list more concrete technical skills")
	}
	gaps = append(gaps, "quantify achievements with metrics")

	rating := api.Rating(min(score, 10))
	feedback := api.Feedback{
		Rating:             &rating,
		ImprovementAreas:   api.Text(capitalize(strings.Join(gaps, "; ")) + "."),
		UpskillSuggestions: missing[:min(len(missing), 3)],
	}
	return extracted, feedback, nil
}

func containsWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
