// Package report maps analysis records to a display tree shared by every
// output surface. It performs no I/O and holds no state.
package report

import (
	"fmt"
	"strings"

	"github.com/yildizm/ResumeLens/internal/api"
)

// Placeholder is shown for every missing, blank or empty value.
const Placeholder = "N/A"

// Section titles, in render order
const (
	SectionExtracted = "Extracted Data"
	SectionFeedback  = "AI Feedback"
)

// Field labels
const (
	LabelName        = "Name"
	LabelEmail       = "Email"
	LabelPhone       = "Phone"
	LabelSkills      = "Core Skills"
	LabelExperience  = "Work Experience"
	LabelEducation   = "Education"
	LabelRating      = "Resume Rating"
	LabelImprovement = "Improvement Areas"
	LabelUpskill     = "Upskill Suggestions"
)

// Report is the rendered form of one analysis record.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is a titled group of fields.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field is a labeled value. Sequence fields carry Items and, when the
// sequence is empty, Value is the placeholder instead.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Item is one element of a sequence field.
type Item struct {
	Heading string `json:"heading"`
	Text    string `json:"text,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// IsList reports whether the field renders as a list of items.
func (f Field) IsList() bool {
	return len(f.Items) > 0
}

// ResultTitle is the heading of a freshly submitted analysis.
func ResultTitle() string {
	return "Analysis Results"
}

// DetailTitle is the heading of a record opened from history.
func DetailTitle(rec *api.Record) string {
	name := ""
	if rec != nil {
		name = rec.Name
	}
	return "Resume Details: " + orPlaceholder(name)
}

// Build renders rec under title. A nil record yields a report whose fields
// are all placeholders.
func Build(title string, rec *api.Record) *Report {
	if rec == nil {
		rec = &api.Record{}
	}
	return &Report{
		Title: title,
		Sections: []Section{
			extractedSection(&rec.Extracted),
			feedbackSection(&rec.Feedback),
		},
	}
}

// Field looks up a field by section and label.
func (r *Report) Field(section, label string) (Field, bool) {
	for _, s := range r.Sections {
		if s.Title != section {
			continue
		}
		for _, f := range s.Fields {
			if f.Label == label {
				return f, true
			}
		}
	}
	return Field{}, false
}

func extractedSection(data *api.ExtractedData) Section {
	skills := make([]Item, 0, len(data.CoreSkills))
	for _, skill := range data.CoreSkills {
		skills = append(skills, Item{Heading: orPlaceholder(skill.String())})
	}

	jobs := make([]Item, 0, len(data.WorkExperience))
	for _, job := range data.WorkExperience {
		jobs = append(jobs, Item{
			Heading: orPlaceholder(job.Title.String()),
			Text:    fmt.Sprintf("at %s (%s)", orPlaceholder(job.Company.String()), orPlaceholder(job.Years.String())),
			Detail:  orPlaceholder(job.Description.String()),
		})
	}

	degrees := make([]Item, 0, len(data.Education))
	for _, edu := range data.Education {
		degrees = append(degrees, Item{
			Heading: orPlaceholder(edu.Degree.String()),
			Text:    fmt.Sprintf("from %s (%s)", orPlaceholder(edu.Institution.String()), orPlaceholder(edu.Years.String())),
		})
	}

	return Section{
		Title: SectionExtracted,
		Fields: []Field{
			scalar(LabelName, data.Name.String()),
			scalar(LabelEmail, data.Email.String()),
			scalar(LabelPhone, data.Phone.String()),
			list(LabelSkills, skills),
			list(LabelExperience, jobs),
			list(LabelEducation, degrees),
		},
	}
}

func feedbackSection(fb *api.Feedback) Section {
	suggestions := make([]Item, 0, len(fb.UpskillSuggestions))
	for _, s := range fb.UpskillSuggestions {
		suggestions = append(suggestions, Item{
			Heading: orPlaceholder(s.Skill.String()),
			Text:    orPlaceholder(s.Explanation.String()),
		})
	}

	return Section{
		Title: SectionFeedback,
		Fields: []Field{
			scalar(LabelRating, FormatRating(fb.Rating)),
			scalar(LabelImprovement, fb.ImprovementAreas.String()),
			list(LabelUpskill, suggestions),
		},
	}
}

// FormatRating renders a rating as "<n> / 10".
func FormatRating(r *api.Rating) string {
	if r == nil {
		return Placeholder
	}
	return r.String() + " / 10"
}

func scalar(label, value string) Field {
	return Field{Label: label, Value: orPlaceholder(value)}
}

func list(label string, items []Item) Field {
	if len(items) == 0 {
		return Field{Label: label, Value: Placeholder}
	}
	return Field{Label: label, Items: items}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return strings.TrimSpace(s)
}
