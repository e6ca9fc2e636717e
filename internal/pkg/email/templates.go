package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">{{.Title}}</h2>
		<p>Hi {{.RecipientName}},</p>
		<p>You're invited to rehearse on <strong>{{.When}}</strong>.</p>
		{{if .Note}}<p>{{.Note}}</p>{{end}}
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.Link}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Open session</a>
		</div>
		<p>See you there,<br>{{.SenderName}}</p>
	</div>
</body>
</html>`))

// InviteData fills the session invite template
type InviteData struct {
	RecipientName string
	SenderName    string
	Title         string
	When          string
	Note          string
	Link          string
}

// RenderSessionInvite returns the subject and HTML body of a session invite
func RenderSessionInvite(data InviteData) (string, string, error) {
	if data.Title == "" {
		data.Title = "Rehearsal invite"
	}

	var buf bytes.Buffer
	if err := inviteTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render invite: %w", err)
	}

	subject := fmt.Sprintf("%s: %s", data.Title, data.When)
	return subject, buf.String(), nil
}
