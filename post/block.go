package post

// Hard caps applied while a block is harvested.
const (
	MaxDataAttrs  = 10
	MaxAuthors    = 5
	MaxTimestamps = 5
	MaxLinks      = 30
	MaxImages     = 30

	// SnippetLimit is the longest snippet kept verbatim; longer text is cut
	// to SnippetLimit-3 runes and suffixed with "...".
	SnippetLimit = 300
)

// Link is an anchor found inside a block.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Image is an img element found inside a block. Src may be empty when only a
// srcset was present.
type Image struct {
	Src    string `json:"src"`
	Srcset string `json:"srcset"`
	Alt    string `json:"alt"`
}

// RawBlock is one DOM element judged to be a candidate feed post, with its
// harvested but uninterpreted signal. The JSON tags match the object shape
// produced by the in-page extractor.
type RawBlock struct {
	Index               int               `json:"index"`
	Tag                 string            `json:"tag"`
	Role                string            `json:"role"`
	ClassName           string            `json:"className"`
	DataAttrs           map[string]string `json:"dataAttrs"`
	Text                string            `json:"text"`
	Snippet             string            `json:"snippet"`
	TextLength          int               `json:"textLength"`
	AuthorCandidates    []string          `json:"authorCandidates"`
	TimestampCandidates []string          `json:"timestampCandidates"`
	Links               []Link            `json:"links"`
	Images              []Image           `json:"images"`
}

// Snippet returns text unchanged when it fits in SnippetLimit runes, and
// otherwise its first SnippetLimit-3 runes followed by "...".
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLimit {
		return text
	}
	return string(runes[:SnippetLimit-3]) + "..."
}

// AppendUnique appends s to list unless it is empty, already present, or the
// list has reached limit.
func AppendUnique(list []string, s string, limit int) []string {
	if s == "" || len(list) >= limit {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
