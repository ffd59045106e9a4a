package render

import "io"

// Pages renders every dashboard screen. *Dashboard implements it; handlers
// depend on the interface so tests can capture page data instead of HTML.
type Pages interface {
	ContentType() string
	Form(w io.Writer, page FormPage) error
	Table(w io.Writer, page TablePage) error
	Overview(w io.Writer, page OverviewPage) error
	Setup(w io.Writer, page SetupPage) error
	Error(w io.Writer, page ErrorPage) error
}

var _ Pages = (*Dashboard)(nil)
