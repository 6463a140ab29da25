package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService provides email delivery functionality
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	senderEmail  string
}

// NewEmailService creates a new EmailService
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword, senderEmail string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		senderEmail:  senderEmail,
	}
}

// SendEmail sends an HTML email through the configured SMTP relay.
func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, "Fiich"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	return d.DialAndSend(m)
}

// GenerateInvitationEmailHTML builds the invitation email with inline styles
// for maximum client compatibility.
func (s *EmailService) GenerateInvitationEmailHTML(companyName, inviterName, message, inviteURL string) string {
	personalNote := ""
	if message != "" {
		personalNote = fmt.Sprintf(`<p style="margin: 0 0 20px; padding: 15px; background-color: #f3f5ff; border-left: 3px solid #5271ff; color: #333333;">%s</p>`, message)
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="fr">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Invitation à consulter la fiche de %s</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, Helvetica, sans-serif; background-color: #f7f9fc;">
	<table border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: collapse;">
		<tr>
			<td style="padding: 40px 0;">
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #5271ff; border-radius: 8px 8px 0 0;">
					<tr>
						<td align="center" style="padding: 30px 0; color: #ffffff;">
							<h1 style="margin: 0; font-size: 28px; font-weight: 700;">Fiich</h1>
						</td>
					</tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff;">
					<tr>
						<td style="padding: 40px 30px; color: #333333; font-size: 16px; line-height: 1.6;">
							<p style="margin: 0 0 20px;">Bonjour,</p>
							<p style="margin: 0 0 20px;"><strong style="color: #5271ff;">%s</strong> vous invite à consulter la fiche entreprise de <strong style="color: #5271ff;">%s</strong>.</p>
							%s
							<table align="center" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; border-radius: 4px; margin: 25px auto;">
								<tr>
									<td align="center" style="background-color: #5271ff; border-radius: 4px;">
										<a href="%s" target="_blank" style="display: inline-block; color: #ffffff; font-size: 16px; font-weight: bold; text-decoration: none; padding: 12px 30px;">Consulter la fiche</a>
									</td>
								</tr>
							</table>
							<p style="margin: 20px 0;">Cette invitation est valable 7 jours.</p>
							<p style="margin: 0 0 5px;">Si vous n'êtes pas à l'origine de cette demande, vous pouvez ignorer cet email.</p>
						</td>
					</tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #f0f2fa; border-radius: 0 0 8px 8px;">
					<tr>
						<td align="center" style="padding: 20px; color: #666666; font-size: 12px;">
							<p style="margin: 0;">Cet email est envoyé automatiquement, merci de ne pas y répondre.</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`, companyName, inviterName, companyName, personalNote, inviteURL)
}

// SendInvitationEmail sends a company-sheet invitation.
func (s *EmailService) SendInvitationEmail(to, companyName, inviterName, message, inviteURL string) error {
	subject := fmt.Sprintf("Invitation : fiche entreprise de %s", companyName)
	htmlBody := s.GenerateInvitationEmailHTML(companyName, inviterName, message, inviteURL)

	return s.SendEmail(to, subject, htmlBody)
}
