package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

const defaultSendTimeout = 10 * time.Second

// MailgunNotifier sends admin notification emails through the Mailgun
// messages API.
type MailgunNotifier struct {
	apiKey     string
	domain     string
	from       string
	adminEmail string
	baseURL    string
	client     *http.Client
}

// MailgunOption configures a MailgunNotifier.
type MailgunOption func(*MailgunNotifier)

// WithBaseURL overrides the Mailgun API base URL, used in tests.
func WithBaseURL(baseURL string) MailgunOption {
	return func(n *MailgunNotifier) { n.baseURL = baseURL }
}

// NewMailgunNotifier creates a notifier that emails adminEmail about each
// new submission.
func NewMailgunNotifier(apiKey, domain, from, adminEmail string, opts ...MailgunOption) ports.Notifier {
	n := &MailgunNotifier{
		apiKey:     apiKey,
		domain:     domain,
		from:       from,
		adminEmail: adminEmail,
		baseURL:    "https://api.mailgun.net/v3",
		client:     &http.Client{Timeout: defaultSendTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends the admin notification email for a submission.
func (n *MailgunNotifier) Notify(ctx context.Context, submission *core.Submission) error {
	form := url.Values{}
	form.Set("from", fmt.Sprintf("Atlas Divisions Contact System <%s>", n.from))
	form.Set("to", n.adminEmail)
	form.Set("subject", fmt.Sprintf("Atlas Divisions Contact: %s - %s", submission.ServiceType, submission.Name))
	form.Set("text", messageBody(submission))
	if submission.Email != "" {
		form.Set("h:Reply-To", submission.Email)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", n.baseURL, n.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build mailgun request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mailgun request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mailgun returned %d", resp.StatusCode)
	}

	return nil
}

func messageBody(submission *core.Submission) string {
	var b strings.Builder
	b.WriteString("New Atlas Divisions Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", submission.Name)
	if submission.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", submission.Email)
	}
	if submission.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", submission.Phone)
	}
	fmt.Fprintf(&b, "Service: %s\n", submission.ServiceType)
	fmt.Fprintf(&b, "Received: %s\n\n", submission.CreatedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Message:\n%s\n\n", submission.Message)
	b.WriteString("Solutions That Outlast the Storm - Reply directly to contact the customer.\n")
	return b.String()
}
