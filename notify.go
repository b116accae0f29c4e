package memoji

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Notice identifies a user-facing export notification.
type Notice int

const (
	// NoticeSaved reports a successful save to the library.
	NoticeSaved Notice = iota

	// NoticeSaveFailed reports a failed save. The cause is logged, not shown.
	NoticeSaveFailed

	// NoticeNoGlyph reports an export attempted before a glyph was selected.
	NoticeNoGlyph
)

// noticeKeys are the catalog keys, which double as the English text.
var noticeKeys = [...]string{
	NoticeSaved:      "Image saved.",
	NoticeSaveFailed: "Failed to save image.",
	NoticeNoGlyph:    "Choose an emoji first.",
}

// String returns the English text of the notice.
func (n Notice) String() string {
	if n >= 0 && int(n) < len(noticeKeys) {
		return noticeKeys[n]
	}
	return "Notice(?)"
}

// Notification is a one-line message for the user.
type Notification struct {
	Notice Notice
	// Text is the localized message.
	Text string
}

// Notifier shows notifications. Notify may be called from any goroutine.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Languages lists the languages notifications are translated to.
var Languages = []language.Tag{language.English, language.Japanese}

var notices = newNoticeCatalog()

func newNoticeCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	translations := map[language.Tag][len(noticeKeys)]string{
		language.English: noticeKeys,
		language.Japanese: {
			NoticeSaved:      "画像を保存しました。",
			NoticeSaveFailed: "画像を保存できませんでした。",
			NoticeNoGlyph:    "先に絵文字を選んでください。",
		},
	}
	for tag, texts := range translations {
		for i, text := range texts {
			if err := b.SetString(tag, noticeKeys[i], text); err != nil {
				panic(err)
			}
		}
	}
	return b
}

var matcher = language.NewMatcher(Languages)

// Localize returns the text of n in the supported language closest to tag.
func Localize(tag language.Tag, n Notice) string {
	_, idx, _ := matcher.Match(tag)
	p := message.NewPrinter(Languages[idx], message.Catalog(notices))
	return p.Sprintf(message.Key(n.String(), n.String()))
}
