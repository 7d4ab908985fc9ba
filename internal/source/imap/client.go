// Package imap implements the email source against a standard IMAP
// mailbox. Messages are normalized into the same RawEmail shape the
// Gmail source produces, including the base64url body encoding, so the
// pipeline's decode path is identical for both providers.
package imap

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/logging"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

// defaultWindow bounds how far back unseen mail is considered, so a
// long-idle mailbox does not flood the pipeline on first start.
const defaultWindow = 15 * time.Minute

const fetchTimeout = 30 * time.Second

const snippetRunes = 80

type Client struct {
	cfg         models.ImapConfig
	maxMessages int
	conn        *client.Client
}

// New creates an IMAP source. The connection is established lazily on
// the first Fetch and re-established after failures.
func New(cfg models.ImapConfig, maxMessages int) *Client {
	return &Client{
		cfg:         cfg,
		maxMessages: maxMessages,
	}
}

func (c *Client) ensureConnected() error {
	if c.conn != nil {
		return nil
	}

	conn, err := client.DialTLS(c.cfg.Server, nil)
	if err != nil {
		return fmt.Errorf("IMAP connection error: %w", err)
	}

	if err := conn.Login(c.cfg.Login, c.cfg.Password); err != nil {
		_ = conn.Logout()
		return fmt.Errorf("IMAP login error: %w", err)
	}

	mailbox := c.cfg.MailBox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := conn.Select(mailbox, false); err != nil {
		_ = conn.Logout()
		return fmt.Errorf("IMAP mailbox selection error: %w", err)
	}

	c.conn = conn
	return nil
}

func (c *Client) drop() {
	if c.conn != nil {
		_ = c.conn.Logout()
		c.conn = nil
	}
}

// Fetch returns unseen messages received within the configured window.
func (c *Client) Fetch(_ context.Context) ([]*models.RawEmail, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	window := c.cfg.Window
	if window == 0 {
		window = defaultWindow
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Since = time.Now().Add(-window)

	ids, err := c.conn.Search(criteria)
	if err != nil {
		c.drop()
		return nil, fmt.Errorf("error searching for recent emails: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if c.maxMessages > 0 && len(ids) > c.maxMessages {
		ids = ids[len(ids)-c.maxMessages:]
	}

	emails := make([]*models.RawEmail, 0, len(ids))
	for _, id := range ids {
		email, err := c.fetchOne(id)
		if err != nil {
			logging.Log.Errorf("Error fetching message %d: %v", id, err)
			continue
		}
		emails = append(emails, email)
	}

	return emails, nil
}

func (c *Client) fetchOne(id uint32) (*models.RawEmail, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(id)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate}

	prevTimeout := c.conn.Timeout
	c.conn.Timeout = fetchTimeout
	defer func() { c.conn.Timeout = prevTimeout }()

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.conn.Fetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}
	if err := <-done; err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("no message retrieved for id %d", id)
	}

	return parseMessage(id, msg)
}

// MarkProcessed flags the message as seen on the server.
func (c *Client) MarkProcessed(_ context.Context, id string) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	num, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", id, err)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(num))

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}

	return c.conn.Store(seqSet, item, flags, nil)
}

// Close logs out from the IMAP server.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Logout()
	c.conn = nil
	return err
}

// parseMessage converts one RFC822 message into the provider-neutral
// RawEmail shape. Only the first inline text/plain part is kept.
func parseMessage(id uint32, msg *imap.Message) (*models.RawEmail, error) {
	section := &imap.BodySectionName{}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	email := &models.RawEmail{
		ID:      strconv.FormatUint(uint64(id), 10),
		TraceID: uuid.New().String(),
	}

	header := mr.Header
	if subject, err := header.Subject(); err == nil {
		email.Subject = subject
	}
	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		email.Sender = from[0].Address
	}
	if date, err := header.Date(); err == nil {
		email.ReceivedDate = date.Format(time.RFC1123Z)
	}

	var bodyText string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if h, ok := part.Header.(*mail.InlineHeader); ok {
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if contentType == "text/plain" && bodyText == "" {
				body, err := io.ReadAll(part.Body)
				if err != nil {
					continue
				}
				bodyText = string(body)
			}
		}
	}

	email.Payload = &models.MimePart{
		MimeType: "text/plain",
		BodyData: base64.RawURLEncoding.EncodeToString([]byte(bodyText)),
	}
	email.Snippet = snippet(bodyText)

	return email, nil
}

func snippet(body string) string {
	runes := []rune(body)
	if len(runes) <= snippetRunes {
		return body
	}
	return string(runes[:snippetRunes]) + "..."
}
