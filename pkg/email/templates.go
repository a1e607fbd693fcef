package email

const emailTemplates = `
{{define "layout_head"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #111827; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #111827; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">{{end}}

{{define "layout_foot"}}    </div>
</body>
</html>{{end}}

{{define "contact"}}{{template "layout_head"}}
        <div class="header"><h1>New Contact Form Submission</h1></div>
        <div class="content">
            <div class="field"><div class="label">From:</div><div class="value">{{.SenderName}} ({{.SenderEmail}})</div></div>
            <div class="field"><div class="label">Subject:</div><div class="value">{{.Subject}}</div></div>
            <div class="field"><div class="label">Message:</div><div class="message-box">{{.Message}}</div></div>
        </div>
        <div class="footer">
            <p>This email was sent from the portfolio contact form.</p>
            <p>To reply, send an email to: {{.SenderEmail}}</p>
        </div>
{{template "layout_foot"}}{{end}}

{{define "booking"}}{{template "layout_head"}}
        <div class="header"><h1>New Consultation Booking</h1></div>
        <div class="content">
            <div class="field"><div class="label">Name:</div><div class="value">{{.Name}} ({{.Email}})</div></div>
            {{if .Phone}}<div class="field"><div class="label">Phone:</div><div class="value">{{.Phone}}</div></div>{{end}}
            <div class="field"><div class="label">Service:</div><div class="value">{{.Service}}</div></div>
            <div class="field"><div class="label">Requested slot:</div><div class="value">{{.Date}}{{if .Time}} {{.Time}}{{end}}</div></div>
            {{if .Message}}<div class="field"><div class="label">Notes:</div><div class="message-box">{{.Message}}</div></div>{{end}}
        </div>
        <div class="footer"><p>Reply to confirm the booking: {{.Email}}</p></div>
{{template "layout_foot"}}{{end}}

{{define "newsletter_owner"}}{{template "layout_head"}}
        <div class="header"><h1>New Newsletter Subscriber</h1></div>
        <div class="content">
            <div class="field"><div class="label">Email:</div><div class="value">{{.Email}}</div></div>
            {{if .Name}}<div class="field"><div class="label">Name:</div><div class="value">{{.Name}}</div></div>{{end}}
        </div>
{{template "layout_foot"}}{{end}}

{{define "newsletter_welcome"}}{{template "layout_head"}}
        <div class="header"><h1>Thanks for subscribing!</h1></div>
        <div class="content">
            <p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
            <p>You are now on the list. New projects, articles and resources will land in your inbox.</p>
        </div>
        <div class="footer"><p>You received this email because {{.Email}} subscribed on the portfolio site.</p></div>
{{template "layout_foot"}}{{end}}
`
