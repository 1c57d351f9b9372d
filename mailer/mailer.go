// Package mailer renders and transmits the digest email: one
// multipart/related message with a plain-text alternative, an HTML body
// and inline images referenced by content-id, sent as BCC over SMTP
// with STARTTLS.
package mailer

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/c01000100/plex-digest/config"
	"github.com/c01000100/plex-digest/report"
)

var bodyTmpl = template.Must(template.New("body").Parse(`<html>
  <head>
    <style>
    h2, h3 { display:inline; }
    </style>
  </head>
  <body>
    <p>Hello!<br>
    <br>Below is the list of content added to Plex's <b>{{.Library}}</b> in the last {{.Days}} day(s).<br>
    <ul>A few notes:
    <li>Log in to <a href='https://app.plex.tv/desktop#' title='Plex Media Server'>Plex Media Server</a> to catch up on the movies or tv shows you may have missed</li>
    <li>If you haven't logged in for a while, the email account you're reading this from matches your Plex login ID</li>
    <li>If there's a show you'd like to see on this server, send me a note and I'll see if I can find it</li>
    <li>The time covered in this report is a multiple of 24 hours times the number of days from the date and time that this report is generated (i.e. From current time yesterday to current time today)</li>
    <li>You are seeing this message because you are subscribed to a Plex Media Server</li>
    <li>If you would like to be removed from the server, just reply to this message indicating as such</li></ul>
    <dl>
    {{range .Fragments}}{{.}}
    {{end}}</dl>
    </p>
  </body>
</html>
`))

type bodyData struct {
	Library   string
	Days      int
	Fragments []template.HTML
}

// Mailer transmits assembled digests over SMTP.
type Mailer struct {
	cfg    config.EmailConfig
	logger zerolog.Logger
}

// New creates a Mailer for the given transport settings.
func New(cfg config.EmailConfig, logger zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
	}
}

// SortEntries orders entries by media type, then title, then episode
// label. The sort is stable, so movies and episodes stay grouped and
// shows list their episodes in order.
func SortEntries(entries []report.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MediaType != entries[j].MediaType {
			return entries[i].MediaType < entries[j].MediaType
		}
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].EpisodeLabel < entries[j].EpisodeLabel
	})
}

// Render builds the HTML body for a set of entries.
func Render(entries []report.Entry, library string, days int) (string, error) {
	data := bodyData{
		Library: library,
		Days:    days,
	}
	for i := range entries {
		data.Fragments = append(data.Fragments, entries[i].Fragment)
	}

	var buf strings.Builder
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}
	return buf.String(), nil
}

// Subject renders the subject line from the configured template.
func (m *Mailer) Subject(library string, count, days int) string {
	return fmt.Sprintf(m.cfg.Subject, library, count, days)
}

// Send renders and transmits the digest. Entries must already be
// sorted. A transport failure is fatal for the run; the caller's
// staging cleanup still runs regardless.
func (m *Mailer) Send(entries []report.Entry, recipients []string, library string, days int) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients to send to")
	}

	htmlBody, err := Render(entries, library, days)
	if err != nil {
		return err
	}

	// Plain-text alternative: one placeholder line per inline image.
	var textLines []string
	for i := range entries {
		textLines = append(textLines, fmt.Sprintf("[image: %s]", entries[i].AltText))
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("Bcc", recipients...)
	msg.SetHeader("Subject", m.Subject(library, len(entries), days))
	msg.SetBody("text/plain", strings.Join(textLines, "\n"))
	msg.AddAlternative("text/html", htmlBody)

	for i := range entries {
		if entries[i].ImagePath == "" {
			continue
		}
		cid := entries[i].ImageCID
		msg.Embed(entries[i].ImagePath, gomail.SetHeader(map[string][]string{
			"Content-ID": {fmt.Sprintf("<%s>", cid)},
		}))
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	m.logger.Debug().
		Str("host", m.cfg.Host).
		Int("port", m.cfg.Port).
		Int("recipients", len(recipients)).
		Int("entries", len(entries)).
		Msg("Sending digest email")

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// Dial checks SMTP reachability and credentials without sending.
func (m *Mailer) Dial() error {
	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	conn, err := dialer.Dial()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	return conn.Close()
}
