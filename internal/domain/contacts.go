package domain

// ContactBook maps email addresses to the display names the user
// prefers for them, loaded from the contacts file at startup.
type ContactBook struct {
	byEmail map[string]Person
}

// NewContactBook builds a book from a list of contacts. Later entries
// with a duplicate email override earlier ones.
func NewContactBook(contacts []Person) *ContactBook {
	byEmail := make(map[string]Person, len(contacts))
	for _, c := range contacts {
		if c.Email != "" {
			byEmail[c.Email] = c
		}
	}
	return &ContactBook{byEmail: byEmail}
}

// Canonical returns the contact-book entry for p's email if one exists
// and carries a name, else p unchanged.
func (b *ContactBook) Canonical(p Person) Person {
	if b == nil {
		return p
	}
	if c, ok := b.byEmail[p.Email]; ok && c.Name != "" {
		return c
	}
	return p
}

// Lookup returns the contact for an email address.
func (b *ContactBook) Lookup(email string) (Person, bool) {
	if b == nil {
		return Person{}, false
	}
	c, ok := b.byEmail[email]
	return c, ok
}

// Len returns the number of contacts in the book.
func (b *ContactBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.byEmail)
}
