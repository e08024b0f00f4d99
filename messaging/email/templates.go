package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var codeTemplate = template.Must(template.ParseFS(templateFS, "templates/verify_email.html"))

type codeMail struct {
	AppName string
	Title   string
	Name    string
	Intro   string
	Code    string
	Minutes int
	Warning string
}

// Subjects of the code mails.
const (
	SubjectVerifyEmail   = "Verify Your Email"
	SubjectPasswordReset = "Password Reset Code"
)

// VerificationMessage builds the mail carrying an email verification code.
func VerificationMessage(appName, to, name, code string, ttl time.Duration) (Message, error) {
	data := codeMail{
		AppName: appName,
		Title:   "Email Verification",
		Name:    name,
		Intro:   fmt.Sprintf("Thank you for registering with %s. Enter the code below to verify your email address.", appName),
		Code:    code,
		Minutes: int(ttl.Minutes()),
		Warning: "If you did not create an account, please ignore this email.",
	}
	return render(to, SubjectVerifyEmail, data)
}

// PasswordResetMessage builds the mail carrying a password reset code.
func PasswordResetMessage(appName, to, name, code string, ttl time.Duration) (Message, error) {
	data := codeMail{
		AppName: appName,
		Title:   "Password Reset",
		Name:    name,
		Intro:   "We received a request to reset your password. Enter the code below to continue.",
		Code:    code,
		Minutes: int(ttl.Minutes()),
		Warning: "If you did not request a password reset, you can ignore this email.",
	}
	return render(to, SubjectPasswordReset, data)
}

func render(to, subject string, data codeMail) (Message, error) {
	var html bytes.Buffer
	if err := codeTemplate.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %q: %w", subject, err)
	}

	text := fmt.Sprintf("Hello %s,\n\n%s\n\nYour code: %s\nIt expires in %d minutes.\n\n%s\n",
		data.Name, data.Intro, data.Code, data.Minutes, data.Warning)

	return Message{To: to, Subject: subject, Text: text, HTML: html.String()}, nil
}
