// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
)

// NewInquiryEmailData contains the data for the new-inquiry notification
// sent to the firm's inquiry address.
type NewInquiryEmailData struct {
	FirmName    string
	Reference   string
	FullName    string
	Mobile      string
	Email       string
	City        string
	Category    string
	Description string
	Amount      string // formatted, e.g. "499.00 INR"
	AdminURL    string
}

// DigestItem is one pending inquiry in a digest.
type DigestItem struct {
	Reference string
	FullName  string
	Category  string
	Waiting   string // e.g. "3 days"
}

// InquiryDigestEmailData contains the data for the pending-inquiry digest.
type InquiryDigestEmailData struct {
	FirmName string
	Items    []DigestItem
	AdminURL string
}

// NewInquiryEmail generates both plain text and HTML versions of a new-inquiry notification.
func NewInquiryEmail(data NewInquiryEmailData) (subject, textBody, htmlBody string) {
	subject = "New consultation request: " + data.Category + " (" + data.FullName + ")"

	var b strings.Builder
	b.WriteString("A new consultation request was submitted on the " + data.FirmName + " website.\n\n")
	b.WriteString("Reference: " + data.Reference + "\n")
	b.WriteString("Name:      " + data.FullName + "\n")
	b.WriteString("Mobile:    " + data.Mobile + "\n")
	b.WriteString("Email:     " + data.Email + "\n")
	if data.City != "" {
		b.WriteString("City:      " + data.City + "\n")
	}
	b.WriteString("Category:  " + data.Category + "\n")
	b.WriteString("Fee:       " + data.Amount + "\n\n")
	b.WriteString(data.Description + "\n")
	if data.AdminURL != "" {
		b.WriteString("\nOpen the inquiry:\n" + data.AdminURL + "\n")
	}
	textBody = b.String()

	var buf bytes.Buffer
	_ = newInquiryHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return subject, textBody, htmlBody
}

// InquiryDigestEmail generates both plain text and HTML versions of the pending-inquiry digest.
func InquiryDigestEmail(data InquiryDigestEmailData) (subject, textBody, htmlBody string) {
	n := len(data.Items)
	noun := "inquiries"
	if n == 1 {
		noun = "inquiry"
	}
	subject = strconv.Itoa(n) + " pending " + noun + " awaiting a response"

	var b strings.Builder
	b.WriteString("The following consultation requests on " + data.FirmName + " are still pending:\n\n")
	for i, it := range data.Items {
		b.WriteString(strconv.Itoa(i+1) + ". " + it.FullName + " (" + it.Category + "), waiting " + it.Waiting + "\n")
		b.WriteString("   Ref " + it.Reference + "\n")
	}
	if data.AdminURL != "" {
		b.WriteString("\nReview them:\n" + data.AdminURL + "\n")
	}
	textBody = b.String()

	var buf bytes.Buffer
	_ = digestHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return subject, textBody, htmlBody
}

const emailHeader = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: Georgia, 'Times New Roman', serif; background-color: #f5f3ef;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f5f3ef;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 6px;">
          <tr>
            <td style="padding: 28px 32px 20px 32px; text-align: center; border-bottom: 2px solid #b08d57;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #1c2a3a;">{{.FirmName}}</h1>
            </td>
          </tr>`

const emailFooter = `
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

var newInquiryHTMLTmpl = template.Must(template.New("new_inquiry").Parse(emailHeader + `
          <tr>
            <td style="padding: 28px 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 18px; color: #1c2a3a;">New consultation request</h2>
              <table role="presentation" cellspacing="0" cellpadding="4" style="font-size: 14px; color: #3f3f46;">
                <tr><td><strong>Reference</strong></td><td>{{.Reference}}</td></tr>
                <tr><td><strong>Name</strong></td><td>{{.FullName}}</td></tr>
                <tr><td><strong>Mobile</strong></td><td>{{.Mobile}}</td></tr>
                <tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
                {{if .City}}<tr><td><strong>City</strong></td><td>{{.City}}</td></tr>{{end}}
                <tr><td><strong>Category</strong></td><td>{{.Category}}</td></tr>
                <tr><td><strong>Fee</strong></td><td>{{.Amount}}</td></tr>
              </table>
              <p style="margin: 20px 0 0 0; font-size: 14px; line-height: 1.6; color: #3f3f46; white-space: pre-wrap;">{{.Description}}</p>
              {{if .AdminURL}}
              <p style="margin: 24px 0 0 0; text-align: center;">
                <a href="{{.AdminURL}}" style="display: inline-block; padding: 12px 28px; background-color: #1c2a3a; color: #ffffff; text-decoration: none; font-size: 14px; border-radius: 4px;">Open inquiry</a>
              </p>
              {{end}}
            </td>
          </tr>` + emailFooter))

var digestHTMLTmpl = template.Must(template.New("inquiry_digest").Parse(emailHeader + `
          <tr>
            <td style="padding: 28px 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 18px; color: #1c2a3a;">Pending consultation requests</h2>
              <ol style="margin: 0; padding-left: 20px; font-size: 14px; line-height: 1.6; color: #3f3f46;">
                {{range .Items}}
                <li><strong>{{.FullName}}</strong> ({{.Category}}), waiting {{.Waiting}}<br><span style="color: #71717a;">Ref {{.Reference}}</span></li>
                {{end}}
              </ol>
              {{if .AdminURL}}
              <p style="margin: 24px 0 0 0; text-align: center;">
                <a href="{{.AdminURL}}" style="display: inline-block; padding: 12px 28px; background-color: #1c2a3a; color: #ffffff; text-decoration: none; font-size: 14px; border-radius: 4px;">Review inquiries</a>
              </p>
              {{end}}
            </td>
          </tr>` + emailFooter))
