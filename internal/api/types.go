package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a stored analysis. The service uses integers today, but the
// client treats it as opaque text.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// Text is a scalar field produced by the model. It tolerates numbers and
// booleans where a string was expected.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '[':
		var parts []Text
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				strs = append(strs, string(p))
			}
		}
		*t = Text(strings.Join(strs, ", "))
	case data[0] == '{':
		return fmt.Errorf("expected text, got object")
	default:
		*t = Text(data)
	}
	return nil
}

// String returns the trimmed text.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Rating is the model's 0-10 score.
type Rating float64

// UnmarshalJSON accepts numbers and numeric strings such as "7" or "7/10".
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if i := strings.Index(s, "/"); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid rating %q", s)
		}
		*r = Rating(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid rating %s: %w", data, err)
	}
	*r = Rating(v)
	return nil
}

// String formats the rating without trailing zeros ("7", "7.5").
func (r Rating) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// Job is one work experience entry.
type Job struct {
	Title       Text `json:"title"`
	Company     Text `json:"company"`
	Years       Text `json:"years"`
	Description Text `json:"description"`
}

// Degree is one education entry.
type Degree struct {
	Degree      Text `json:"degree"`
	Institution Text `json:"institution"`
	Years       Text `json:"years"`
}

// ExtractedData is the structured content pulled out of a resume.
type ExtractedData struct {
	Name           Text     `json:"name"`
	Email          Text     `json:"email"`
	Phone          Text     `json:"phone"`
	CoreSkills     []Text   `json:"core_skills"`
	WorkExperience []Job    `json:"work_experience"`
	Education      []Degree `json:"education"`
}

// Suggestion is one upskilling recommendation.
type Suggestion struct {
	Skill       Text `json:"skill"`
	Explanation Text `json:"explanation"`
}

// Feedback is the model's assessment of a resume.
// Rating is nil when the service omitted it.
type Feedback struct {
	Rating             *Rating      `json:"resume_rating"`
	ImprovementAreas   Text         `json:"improvement_areas"`
	UpskillSuggestions []Suggestion `json:"upskill_suggestions"`
}

// Record is a complete stored analysis.
type Record struct {
	ID        ID            `json:"id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Filename  string        `json:"filename"`
	Extracted ExtractedData `json:"extracted_data"`
	Feedback  Feedback      `json:"llm_analysis"`
}

// Summary is one entry of the analysis history.
type Summary struct {
	ID       ID     `json:"id"`
	Name     string `json:"name,omitempty"`
	Filename string `json:"filename"`
}

// Wire payloads. Pointers distinguish "absent" from "empty" so incomplete
// records can be rejected instead of rendered.

type feedbackPayload struct {
	Feedback
	Error string `json:"error"`
}

type analysisPayload struct {
	Extracted *ExtractedData   `json:"extracted_data"`
	Feedback  *feedbackPayload `json:"llm_analysis"`
	Error     string           `json:"error"`
}

type uploadPayload struct {
	Message  string           `json:"message"`
	ID       ID               `json:"id"`
	Analysis *analysisPayload `json:"analysis"`
}

type recordPayload struct {
	ID        ID               `json:"id"`
	Name      *string          `json:"name"`
	Filename  string           `json:"filename"`
	Extracted *ExtractedData   `json:"extracted_data"`
	Feedback  *feedbackPayload `json:"llm_analysis"`
}

type summaryPayload struct {
	ID       ID      `json:"id"`
	Name     *string `json:"name"`
	Filename string  `json:"filename"`
}

type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}
