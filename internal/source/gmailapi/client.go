// Package gmailapi implements the email source against the Gmail REST
// API. Message payloads arrive as base64url-encoded MIME trees, which
// map directly onto models.MimePart.
package gmailapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

const gmailUser = "me"

type Client struct {
	svc         *gmail.Service
	query       string
	maxMessages int64
}

// New builds a Gmail client from an OAuth client-secret file and a
// previously obtained token file. Acquiring the token interactively is
// outside this program; any OAuth helper producing a standard token
// JSON works.
func New(ctx context.Context, cfg models.GmailConfig, maxMessages int) (*Client, error) {
	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading Gmail credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(secret, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing Gmail credentials: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading Gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating Gmail service: %w", err)
	}

	query := cfg.Query
	if query == "" {
		query = "is:unread"
	}

	return &Client{
		svc:         svc,
		query:       query,
		maxMessages: int64(maxMessages),
	}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Fetch lists messages matching the configured query and retrieves
// each in full.
func (c *Client) Fetch(ctx context.Context) ([]*models.RawEmail, error) {
	listed, err := c.svc.Users.Messages.List(gmailUser).
		Q(c.query).
		MaxResults(c.maxMessages).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing Gmail messages: %w", err)
	}

	emails := make([]*models.RawEmail, 0, len(listed.Messages))
	for _, stub := range listed.Messages {
		full, err := c.svc.Users.Messages.Get(gmailUser, stub.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("fetching Gmail message %s: %w", stub.Id, err)
		}
		emails = append(emails, fromMessage(full))
	}

	return emails, nil
}

// MarkProcessed removes the UNREAD label so the message is not listed
// again.
func (c *Client) MarkProcessed(ctx context.Context, id string) error {
	_, err := c.svc.Users.Messages.Modify(gmailUser, id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("marking Gmail message %s processed: %w", id, err)
	}
	return nil
}

// Close is a no-op; the Gmail service holds no persistent connection.
func (c *Client) Close() error {
	return nil
}

func fromMessage(msg *gmail.Message) *models.RawEmail {
	email := &models.RawEmail{
		ID:      msg.Id,
		Snippet: msg.Snippet,
		TraceID: uuid.New().String(),
	}

	if msg.Payload == nil {
		return email
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			email.Subject = header.Value
		case "from":
			email.Sender = header.Value
		case "date":
			email.ReceivedDate = header.Value
		}
	}

	email.Payload = convertPart(msg.Payload)
	return email
}

func convertPart(part *gmail.MessagePart) *models.MimePart {
	if part == nil {
		return nil
	}

	node := &models.MimePart{
		MimeType: part.MimeType,
	}
	if part.Body != nil {
		node.BodyData = part.Body.Data
	}
	for _, sub := range part.Parts {
		node.Parts = append(node.Parts, convertPart(sub))
	}
	return node
}
