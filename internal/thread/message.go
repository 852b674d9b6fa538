package thread

import (
	"encoding/json"
	"net/textproto"
	"regexp"
	"sort"
	"strings"

	"github.com/bloovis/csup/internal/domain"
)

// Part is one rendering-ready piece of a message body: a text part, an
// attachment stub, or an enclosure summary.
type Part struct {
	ID          int
	ContentType string
	Filename    string
	Content     string
	Size        int
	Nesting     int

	// Enclosure summary headers, set only for message/rfc822 parts.
	From    string
	To      string
	Cc      string
	Subject string
	Date    string
}

// Message is one node of a thread's message tree. Children are replies
// nested under this message in display order. The parent pointer is a
// back-reference only; the tree is owned root-down.
type Message struct {
	ID        string
	Timestamp int64
	Headers   map[string]string
	Parts     []Part
	Chunks    []Chunk

	From       domain.Person
	To         []domain.Person
	Cc         []domain.Person
	Bcc        []domain.Person
	ReplyTo    domain.Person
	ListPost   string
	References []string
	Snippet    string

	Parent   *Message
	Children []*Message

	labels map[string]bool
	dirty  bool
	thread *ThreadData
}

const snippetLen = 80

var (
	mailtoRE = regexp.MustCompile(`(?i)mailto:([^>?,\s]+)`)
	msgIDRE  = regexp.MustCompile(`<([^<>]+)>`)
)

func newMessage(id string) *Message {
	return &Message{
		ID:      id,
		Headers: make(map[string]string),
		labels:  make(map[string]bool),
	}
}

// Header returns the value of a header by name, case-insensitively.
func (m *Message) Header(name string) string {
	return m.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// HasLabel reports whether the message carries the given label.
func (m *Message) HasLabel(label string) bool {
	return m.labels[label]
}

// Labels returns the message's label set, sorted.
func (m *Message) Labels() []string {
	labels := make([]string, 0, len(m.labels))
	for l := range m.labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Dirty reports whether the label set has local changes not yet
// written back to the index.
func (m *Message) Dirty() bool {
	return m.dirty
}

// applyLabel adds a label, marking the message dirty only when the set
// actually changes.
func (m *Message) applyLabel(label string) {
	if !m.labels[label] {
		m.labels[label] = true
		m.dirty = true
	}
}

func (m *Message) removeLabel(label string) {
	if m.labels[label] {
		delete(m.labels, label)
		m.dirty = true
	}
}

// addChild appends a child and sets its parent back-reference.
func (m *Message) addChild(child *Message) {
	child.Parent = m
	m.Children = append(m.Children, child)
}

// parseNode parses one "show" JSON node: either
// [message_info, [child...]] or a bare message id string used as a
// placeholder for a not-yet-loaded message. Malformed nodes yield a
// message with only an id; callers tolerate partially-populated
// messages.
func parseNode(raw json.RawMessage, book *domain.ContactBook) *Message {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return newMessage(id)
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) == 0 {
		return newMessage("")
	}

	m := parseInfo(pair[0], book)
	if len(pair) > 1 {
		var kids []json.RawMessage
		if err := json.Unmarshal(pair[1], &kids); err == nil {
			for _, kid := range kids {
				m.addChild(parseNode(kid, book))
			}
		}
	}
	return m
}

// parseInfo parses the message_info element of a node. Each field is
// decoded independently so one malformed field does not discard the
// rest.
func parseInfo(raw json.RawMessage, book *domain.ContactBook) *Message {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return newMessage(id)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return newMessage("")
	}

	m := newMessage("")
	json.Unmarshal(obj["id"], &m.ID)
	json.Unmarshal(obj["timestamp"], &m.Timestamp)

	var tags []string
	json.Unmarshal(obj["tags"], &tags)
	for _, tag := range tags {
		m.labels[tag] = true
	}

	var headers map[string]string
	json.Unmarshal(obj["headers"], &headers)
	for name, value := range headers {
		m.Headers[textproto.CanonicalMIMEHeaderKey(name)] = value
	}

	var body []json.RawMessage
	json.Unmarshal(obj["body"], &body)
	for _, part := range body {
		parsePart(part, 0, &m.Parts)
	}

	m.deriveAddresses(book)
	m.deriveSnippet()
	return m
}

// partInfo mirrors one element of the "show" body array.
type partInfo struct {
	ID          int             `json:"id"`
	ContentType string          `json:"content-type"`
	Filename    string          `json:"filename"`
	Content     json.RawMessage `json:"content"`
	Length      int             `json:"content-length"`
}

// enclosedMessage mirrors the content of a message/rfc822 part.
type enclosedMessage struct {
	Headers map[string]string `json:"headers"`
	Body    []json.RawMessage `json:"body"`
}

// parsePart flattens one body part (and its sub-parts) into parts. A
// part with array content and content-type message/rfc822 becomes an
// enclosure part summarizing the embedded message rather than being
// recursed into as a child.
func parsePart(raw json.RawMessage, nesting int, parts *[]Part) {
	var info partInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return
	}

	part := Part{
		ID:          info.ID,
		ContentType: info.ContentType,
		Filename:    info.Filename,
		Size:        info.Length,
		Nesting:     nesting,
	}

	var content string
	if err := json.Unmarshal(info.Content, &content); err == nil {
		part.Content = content
		if part.Size == 0 {
			part.Size = len(content)
		}
		*parts = append(*parts, part)
		return
	}

	var sub []json.RawMessage
	if err := json.Unmarshal(info.Content, &sub); err != nil || len(sub) == 0 {
		// No content at all: attachment stub carrying only metadata.
		*parts = append(*parts, part)
		return
	}

	if info.ContentType == "message/rfc822" {
		var enc enclosedMessage
		if err := json.Unmarshal(sub[0], &enc); err == nil {
			headers := make(map[string]string, len(enc.Headers))
			for name, value := range enc.Headers {
				headers[textproto.CanonicalMIMEHeaderKey(name)] = value
			}
			part.From = headers["From"]
			part.To = headers["To"]
			part.Cc = headers["Cc"]
			part.Subject = headers["Subject"]
			part.Date = headers["Date"]

			var encParts []Part
			for _, p := range enc.Body {
				parsePart(p, nesting+1, &encParts)
			}
			part.Content = joinTextParts(encParts)
			part.Size = len(part.Content)
		}
		*parts = append(*parts, part)
		return
	}

	// Ordinary multipart container: recurse into its sub-parts.
	for _, p := range sub {
		parsePart(p, nesting+1, parts)
	}
}

func joinTextParts(parts []Part) string {
	var texts []string
	for _, p := range parts {
		if p.ContentType == "text/plain" && p.Content != "" {
			texts = append(texts, p.Content)
		}
	}
	return strings.Join(texts, "\n")
}

// deriveAddresses computes the Person fields, the List-Post target and
// the References list from the parsed headers.
func (m *Message) deriveAddresses(book *domain.ContactBook) {
	m.From = book.Canonical(domain.ParsePerson(m.Header("From")))
	m.To = canonicalList(book, domain.ParsePersonList(m.Header("To")))
	m.Cc = canonicalList(book, domain.ParsePersonList(m.Header("Cc")))
	m.Bcc = canonicalList(book, domain.ParsePersonList(m.Header("Bcc")))
	if v := m.Header("Reply-To"); v != "" {
		m.ReplyTo = book.Canonical(domain.ParsePerson(v))
	}
	m.ListPost = parseListPost(m.Header("List-Post"))
	m.References = parseReferences(m.Header("References"))
}

func canonicalList(book *domain.ContactBook, people []domain.Person) []domain.Person {
	for i, p := range people {
		people[i] = book.Canonical(p)
	}
	return people
}

// parseListPost extracts the posting address from a List-Post header:
// either a mailto: target or a bare address.
func parseListPost(v string) string {
	if v == "" {
		return ""
	}
	if m := mailtoRE.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	v = strings.Trim(strings.TrimSpace(v), "<>")
	if strings.Contains(v, "@") {
		return v
	}
	return ""
}

// parseReferences returns the ancestor message ids from a References
// header, oldest first.
func parseReferences(v string) []string {
	if v == "" {
		return nil
	}
	matches := msgIDRE.FindAllStringSubmatch(v, -1)
	if matches == nil {
		return strings.Fields(v)
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// deriveSnippet computes a short text preview from the first text part.
func (m *Message) deriveSnippet() {
	for _, p := range m.Parts {
		if p.ContentType != "text/plain" || p.Content == "" {
			continue
		}
		snippet := strings.Join(strings.Fields(p.Content), " ")
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		m.Snippet = snippet
		return
	}
}
