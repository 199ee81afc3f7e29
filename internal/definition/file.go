package definition

// On-disk layout of the definitions file.

type fileRoot struct {
	CaseTypes []fileCaseType `yaml:"case_types"`
}

type fileCaseType struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Jurisdiction string      `yaml:"jurisdiction"`
	Version      int         `yaml:"version"`
	States       []fileState `yaml:"states"`
	Fields       []fileField `yaml:"fields"`
	Events       []fileEvent `yaml:"events"`
}

type fileState struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type fileField struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
}

type fileEvent struct {
	ID               string             `yaml:"id"`
	Name             string             `yaml:"name"`
	Description      string             `yaml:"description"`
	PostState        string             `yaml:"post_state"`
	AllowedStates    []string           `yaml:"allowed_states"`
	Publish          bool               `yaml:"publish"`
	PublishFields    []filePublishField `yaml:"publish_fields"`
	AboutToSubmitURL string             `yaml:"about_to_submit_url"`
	SubmittedURL     string             `yaml:"submitted_url"`
	SubmittedRetries int                `yaml:"submitted_retries"`
}

type filePublishField struct {
	Field string `yaml:"field"`
	Alias string `yaml:"alias"`
}
