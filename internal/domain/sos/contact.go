package sos

import "strings"

// Contact is a trusted person to notify when an SOS fires.
// Supplied by the external contact store; consumed read-only here.
type Contact struct {
	// Name of the contact.
	Name string `yaml:"name" json:"name"`
	// Phone is optional and unused by the email pipeline.
	Phone string `yaml:"phone,omitempty" json:"phone,omitempty"`
	// Email is the notification address.
	Email string `yaml:"email" json:"email"`
}

// HasValidEmail reports whether the contact's email looks syntactically
// usable. The pipeline only ever notifies contacts that pass this check.
func (c Contact) HasValidEmail() bool {
	return strings.Contains(c.Email, "@")
}

// ValidEmails filters a contact list down to the usable addresses.
func ValidEmails(contacts []Contact) []string {
	var emails []string

	for _, c := range contacts {
		if c.HasValidEmail() {
			emails = append(emails, c.Email)
		}
	}

	return emails
}
