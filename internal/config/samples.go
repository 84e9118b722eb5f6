package config

// SampleConfig returns a fully commented configuration file.
func SampleConfig() string {
	return `# ResumeLens configuration
version: "1.0"

# Analysis service. Only the base address is configurable; the client
# always calls /api/upload, /api/resumes and /api/resumes/{id} below it.
service:
  base_url: "http://localhost:8000"
  # Per-request timeout. Analyses can take a while; 0 disables the limit.
  timeout: 2m
  user_agent: "resumelens"

# Interactive terminal UI
ui:
  # default, high-contrast or minimal
  theme: "default"
  # Directory the PDF picker opens in
  start_dir: "."
  no_emoji: false

# Headless commands (analyze, history, watch)
output:
  # text, json or markdown
  default_format: "text"
  # auto, always or never
  color_mode: "auto"
  verbose: false

logging:
  # The UI owns the terminal, so it always logs to a file.
  file: "~/.cache/resumelens/resumelens.log"
  # text or json
  format: "text"

# Local stand-in service (resumelens stub)
stub:
  addr: ":8000"
  # heuristic needs nothing else; openai reads OPENAI_API_KEY;
  # ollama talks to a local server
  analyzer: "heuristic"
  # Empty uses the provider default
  model: ""
  # Provider endpoint override, e.g. http://localhost:11434
  llm_url: ""
`
}

// MinimalSampleConfig returns a configuration with only essential settings.
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "http://localhost:8000"
output:
  default_format: "text"
`
}
