package http

import "html/template"

// pageTemplates returns the minimal server-rendered page set. Styling and
// theming live elsewhere; these templates only carry the form and listing
// semantics the handlers need.
const pagesSource = `
{{define "home.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Solutions That Outlast the Storm</p>
<p><a href="/contact">Contact Us</a></p>
</body>
</html>{{end}}

{{define "contact.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Contact Us</title></head>
<body>
<h1>Contact Us</h1>
<form method="post" action="/submit">
<label>Name <input type="text" name="name" required></label>
<label>Email <input type="email" name="email"></label>
<label>Phone <input type="tel" name="phone"></label>
<label>Service
<select name="service_type" required>
{{range .ServiceTypes}}<option value="{{.}}">{{.}}</option>{{end}}
</select>
</label>
<label>Message <textarea name="message" required></textarea></label>
<button type="submit">Send Message</button>
</form>
<p>We'll get back to you within 24 hours</p>
</body>
</html>{{end}}

{{define "success.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Message Sent</title></head>
<body>
<h1>Thank you!</h1>
<p>Your message has been received. We'll get back to you within 24 hours.</p>
<p><a href="/">Back to home</a></p>
</body>
</html>{{end}}

{{define "error.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Something went wrong</title></head>
<body>
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
<p><a href="/contact">Back to the contact form</a></p>
</body>
</html>{{end}}

{{define "admin.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin Panel</title></head>
<body>
<h1>Contact Form Administration</h1>
{{if .AdminEmail}}<p>Signed in as {{.AdminEmail}}</p>{{end}}
{{if not .Submissions}}
<p>No submissions yet. Waiting for the first contact form submission...</p>
{{else}}
<table>
<tr><th>Name</th><th>Email</th><th>Phone</th><th>Service</th><th>Message</th><th>Status</th><th>Date</th><th></th></tr>
{{range .Submissions}}
<tr>
<td>{{.Name}}</td>
<td>{{.Email}}</td>
<td>{{.Phone}}</td>
<td>{{.ServiceType}}</td>
<td>{{.Message}}</td>
<td>{{.Status}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
<td>
<form method="post" action="/admin/update">
<input type="hidden" name="id" value="{{.ID}}">
<input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
<select name="status">
{{range $.Statuses}}<option value="{{.}}">{{.}}</option>{{end}}
</select>
<button type="submit">Update</button>
</form>
</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>{{end}}
`

func pageTemplates() *template.Template {
	return template.Must(template.New("pages").Parse(pagesSource))
}
