// Package notices builds the localized acknowledgement texts shown to the
// user after an action (file received, invitation sent) and the status labels
// used by badges.
package notices

import (
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyFileReceived   = "notice.file_received"
	keyInvitationSent = "notice.invitation_sent"
	keyNothingFound   = "notice.nothing_found"
	keyStatusPending  = "status.pending"
	keyStatusInvited  = "status.invited"
	keyStatusActive   = "status.active"
)

var supportedTags = []language.Tag{
	language.Russian,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

var messages = map[language.Tag]map[string]string{
	language.Russian: {
		keyFileReceived:   "Файл \"%s\" загружен",
		keyInvitationSent: "Приглашение отправлено",
		keyNothingFound:   "Контрагенты не найдены. Попробуйте изменить запрос или загрузите новый список.",
		keyStatusPending:  "Ожидает",
		keyStatusInvited:  "Приглашен",
		keyStatusActive:   "Активен",
	},
	language.English: {
		keyFileReceived:   "File \"%s\" uploaded",
		keyInvitationSent: "Invitation sent",
		keyNothingFound:   "No counterparties found. Try another query or upload a new list.",
		keyStatusPending:  "Pending",
		keyStatusInvited:  "Invited",
		keyStatusActive:   "Active",
	},
}

// Default returns the language used when nothing better matches.
func Default() language.Tag {
	return language.Russian
}

// Notifier renders notices in a single language.
type Notifier struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Notifier for the supported language closest to lang.
// Unparseable or unsupported values fall back to Russian.
func New(lang string) *Notifier {
	tag := Resolve(lang)
	builder := catalog.NewBuilder(catalog.Fallback(Default()))
	for t, msgs := range messages {
		for key, msg := range msgs {
			// Keys and messages are static; SetString only fails on malformed input.
			_ = builder.SetString(t, key, msg)
		}
	}
	return &Notifier{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Resolve maps a BCP 47 string onto a supported tag.
func Resolve(lang string) language.Tag {
	if lang == "" {
		return Default()
	}
	requested, err := language.Parse(lang)
	if err != nil {
		return Default()
	}
	_, idx, confidence := tagMatcher.Match(requested)
	if confidence == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Language returns the tag the notifier renders in.
func (n *Notifier) Language() language.Tag {
	return n.tag
}

// FileReceived acknowledges that a file named name was received.
func (n *Notifier) FileReceived(name string) models.Notice {
	return models.Notice{
		Kind:    models.NoticeFileReceived,
		Message: n.printer.Sprintf(keyFileReceived, name),
	}
}

// InvitationSent acknowledges an invitation.
func (n *Notifier) InvitationSent() models.Notice {
	return models.Notice{
		Kind:    models.NoticeInvitationSent,
		Message: n.printer.Sprintf(keyInvitationSent),
	}
}

// NothingFound is the empty-state text for a filter without matches.
func (n *Notifier) NothingFound() string {
	return n.printer.Sprintf(keyNothingFound)
}

// StatusLabel returns the badge label of status.
func (n *Notifier) StatusLabel(status models.Status) string {
	switch status {
	case models.StatusPending:
		return n.printer.Sprintf(keyStatusPending)
	case models.StatusInvited:
		return n.printer.Sprintf(keyStatusInvited)
	case models.StatusActive:
		return n.printer.Sprintf(keyStatusActive)
	default:
		return string(status)
	}
}
