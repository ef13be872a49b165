package extract

// Feed markup changes often; every selector the extractor relies on lives
// here, shared by the in-page script and the snapshot extractor.
const (
	// SignatureSelector matches elements that look like post containers.
	SignatureSelector = "article, div[role='article'], div[data-pagelet*='FeedUnit'], li[role='listitem']"

	// FallbackRootSelector scopes the repeated-class heuristic. The body, and
	// then the whole document, are used when it matches nothing.
	FallbackRootSelector = "main"

	// AuthorSelector matches byline-like elements inside a block.
	AuthorSelector = "h1 a, h2 a, h3 a, h4 a, strong a, a[role='link'], span[dir='auto']"

	// TimestampSelector matches elements that may carry a post time.
	TimestampSelector = "time, abbr[title], abbr[aria-label], span[aria-label], a[aria-label]"

	LinkSelector  = "a[href]"
	ImageSelector = "img"
)

// timestampAttrs are read in order; the first non-empty value wins, then the
// element's text.
var timestampAttrs = []string{"datetime", "title", "aria-label"}
