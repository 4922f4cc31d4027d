package slides

// Kind identifies what a slide presents.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindImage     Kind = "image"
)

// Slide is one unit of a segmented presentation.
type Slide struct {
	Kind Kind `json:"kind"`

	// Heading slides only.
	Level int    `json:"level,omitempty"`
	Title string `json:"title,omitempty"`

	// Body is the sanitized markup shown with the slide: the blocks a
	// heading absorbed, or a paragraph slide's own block. Empty for images.
	Body string `json:"body,omitempty"`

	// Image slides only.
	ImageSrc string `json:"image_src,omitempty"`
	ImageAlt string `json:"image_alt,omitempty"`
}

// Text returns the collapsed plain text of the slide's title and body.
func (s Slide) Text() string {
	body := PlainText(s.Body)
	switch {
	case s.Title == "":
		return body
	case body == "":
		return s.Title
	default:
		return s.Title + " " + body
	}
}
