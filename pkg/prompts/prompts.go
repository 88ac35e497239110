// Package prompts holds the prompt templates used by the content request
// services. Built-in defaults can be overridden with a prompts.yaml file.
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

const (
	// UserQuestion is the fixed user turn for narration requests.
	UserQuestion = "What happened today in history?"

	// VideoTitlePrefix and VideoDescriptionSuffix decorate upload metadata.
	VideoTitlePrefix       = "Today in history:"
	VideoDescriptionSuffix = "♥ Generated by AI ♥"
)

const defaultNarration = `Today date is {{.Date}}.
You must look for a historical event which happened today years ago and write it as follows:
- It must be about historical events.
- It must be targeted at the general public and safe for kids.
- It must be informative, engaging and entertaining.
- It must avoid controversial topics and violence.
- It must NOT be accompanied by visuals and sound effects.
- It must be around {{.WordCount}} words long.
- It must RESPECT Culture and Traditions of those about whom it is spoken.

AVOID these topics:
- colonisation
- conspiracy theory
- death
- gender identity and LGBTQ+ issues
- health and vaccination debates
- historical revisionism
- homophobia
- immigration
- nazism
- patriotism
- political endorsements
- racism
- religion
- sexism
- violence
- war
- weapons
- xenophobia

You should not use the events and words from this list:
- atomic bomb
{{range .PreviousTexts}}- {{.}}
{{end}}
The script must include only narration, not visuals or sound effects. ONLY NARRATION.`

const defaultTitle = `Get a title for this text. The title should contain two words that summarize the text. It should be 2 words long.`

const defaultTags = `Get a list of tags for the text. They should contain 3 tags maximum. Each tag should be one word long. Country names, historical events, and general terms are good tags.
Exclude following words: {{range .ExcludeTags}}{{.}} {{end}}`

const defaultDescription = `Get a short summary for the text. It should be around 3 or 4 words long. It should be informative and engaging.
Exclude following words: {{range .ExcludeWords}}{{.}} {{end}}`

type Prompts struct {
	Narration   string `yaml:"narration"`
	Title       string `yaml:"title"`
	Tags        string `yaml:"tags"`
	Description string `yaml:"description"`
}

type NarrationParams struct {
	Date          string
	WordCount     int
	PreviousTexts []string
}

type TagsParams struct {
	ExcludeTags []string
}

type DescriptionParams struct {
	ExcludeWords []string
}

// Load returns the built-in prompts, overridden by prompts.yaml when present.
func Load() (*Prompts, error) {
	p := &Prompts{
		Narration:   defaultNarration,
		Title:       defaultTitle,
		Tags:        defaultTags,
		Description: defaultDescription,
	}

	data, err := os.ReadFile(defaultPromptsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	return p, nil
}

func (p *Prompts) RenderNarration(params NarrationParams) (string, error) {
	return render(p.Narration, params)
}

func (p *Prompts) RenderTags(params TagsParams) (string, error) {
	return render(p.Tags, params)
}

func (p *Prompts) RenderDescription(params DescriptionParams) (string, error) {
	return render(p.Description, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
