package mailer

import (
	"context"
	"fmt"
	"net/url"
)

// SendWelcome mails a newly provisioned account a link to the
// credential-setup page. The account is unusable until the password
// is set, so delivery failures must be surfaced to the caller.
func (m *Mailer) SendWelcome(ctx context.Context, email string) error {
	setURL := fmt.Sprintf("%s/set-password?email=%s", m.frontendURL, url.QueryEscape(email))

	html := fmt.Sprintf(`<p>Hello,</p>
<p>An account has been created for you at <strong>%s</strong>.</p>
<p>To get started, set up your password here:</p>
<p><a href="%s">Set Your Password</a></p>
<p>If you did not expect this email, please contact support.</p>`, email, setURL)

	text := fmt.Sprintf(
		"An account has been created for you at %s.\nSet your password: %s",
		email, setURL,
	)

	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: "Welcome! Set Your Password",
		HTML:    html,
		Text:    text,
	})
}

// SendPasswordSetConfirmation mails a confirmation after the password
// has been set. Cosmetic; callers may ignore failures.
func (m *Mailer) SendPasswordSetConfirmation(ctx context.Context, email string) error {
	loginURL := m.frontendURL + "/login"

	html := fmt.Sprintf(`<p>Hello,</p>
<p>Your password has been set successfully. You can now log in to your account.</p>
<p><a href="%s">Login Now</a></p>
<p>If you did not set this password, contact support immediately.</p>`, loginURL)

	text := fmt.Sprintf(
		"Your password has been set successfully. Log in at %s",
		loginURL,
	)

	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: "Password Set Successfully",
		HTML:    html,
		Text:    text,
	})
}
