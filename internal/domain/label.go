package domain

// Well-known notmuch tags the client treats specially.
const (
	LabelInbox      = "inbox"
	LabelUnread     = "unread"
	LabelStarred    = "starred"
	LabelSent       = "sent"
	LabelDraft      = "draft"
	LabelDeleted    = "deleted"
	LabelSpam       = "spam"
	LabelAttachment = "attachment"
)
