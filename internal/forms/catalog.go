package forms

// Contact is the "get in touch" form.
var Contact = Form{
	ID:    "contact",
	Title: "Contact",
	Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Kind: Email, Required: true},
		{Name: "phone", Label: "Phone", Kind: Phone},
		{Name: "message", Label: "Message", Required: true},
	},
	Sending: "Sending message...",
	Success: "Message sent! We will get back to you soon.",
	Failure: "Could not send your message. Please try again.",
}

// Suggestions collects activity proposals.
var Suggestions = Form{
	ID:    "suggestions",
	Title: "Suggestions",
	Fields: []Field{
		{Name: "name", Label: "Name"},
		{Name: "email", Label: "Email", Kind: Email},
		{Name: "suggestion", Label: "Suggestion", Required: true},
	},
	Sending: "Sending suggestion...",
	Success: "Suggestion sent! We will review your proposal.",
	Failure: "Could not send your suggestion. Please try again.",
}

// Volunteer is the volunteer application.
var Volunteer = Form{
	ID:    "volunteer",
	Title: "Volunteer",
	Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Kind: Email, Required: true},
		{Name: "phone", Label: "Phone", Kind: Phone, Required: true},
		{Name: "availability", Label: "Availability"},
	},
	Sending: "Sending application...",
	Success: "Application sent! We will contact you soon.",
	Failure: "Could not send your application. Please try again.",
}

// Catalog lists the forms in display order.
func Catalog() []Form {
	return []Form{Contact, Suggestions, Volunteer}
}

// Lookup returns the form with the given ID.
func Lookup(id string) (Form, bool) {
	for _, f := range Catalog() {
		if f.ID == id {
			return f, true
		}
	}
	return Form{}, false
}

// PixKey is the collective's PIX key for donations, shown beside the forms.
const PixKey = "contato@quilombourbanosaojoaodelrei.org"
