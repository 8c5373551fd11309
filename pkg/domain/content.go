package domain

// ContentItem is a titled card shown in a landing section.
type ContentItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Content is the landing page document: static headings, descriptions and
// card lists consumed by the page at render time.
type Content struct {
	Hero struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
		CTA      struct {
			Text string `json:"text"`
		} `json:"cta"`
	} `json:"hero"`

	About struct {
		Title       string        `json:"title"`
		Description string        `json:"description"`
		Items       []ContentItem `json:"items"`
	} `json:"about"`

	Contact struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"contact"`

	Footer struct {
		Copyright string `json:"copyright"`
	} `json:"footer"`
}
