package backend

import "strings"

// Kind discriminates the closed set of backend response variants. Exactly one
// variant is realized per call; anything the classifier does not recognize is
// KindUnknown and must be treated as a failure downstream, never as success.
type Kind string

const (
	// KindRedirect means the backend expects a full-page browser redirect.
	KindRedirect Kind = "redirect"
	// KindForm means the buyer's browser must auto-submit a form to a third party.
	KindForm Kind = "form"
	// KindFailure means the backend rejected the request.
	KindFailure Kind = "failure"
	// KindSuccess means the backend completed the operation with no buyer
	// interaction required. Post-processing operations end here; the checkout
	// router treats it like any other unrecognized variant.
	KindSuccess Kind = "success"
	// KindUnknown is the fallthrough for unrecognized response shapes.
	KindUnknown Kind = "unknown"
)

// Status is one entry of a failure response's status collection.
type Status struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Form describes the auto-submit form a KindForm response requires.
type Form struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Fields map[string]string `json:"fields"`
}

// Response is the classified backend output.
type Response struct {
	Kind             Kind
	RedirectURL      string
	Form             Form
	Statuses         []Status
	BackendReference string
}

// FailureMessage concatenates all status descriptions in order. A failure
// with zero statuses yields an empty string; the failure path still triggers.
func (r *Response) FailureMessage() string {
	var b strings.Builder
	for _, s := range r.Statuses {
		b.WriteString(s.Description)
	}
	return b.String()
}
