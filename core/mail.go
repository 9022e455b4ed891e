package core

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	htmltmpl "html/template"
	"io"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"
)

//go:embed all:assets/email
var emailFS embed.FS

var (
	templates map[string]*emailTemplate // {name: variants}
	tmplMu    sync.RWMutex
)

type (
	// executor is implemented by both *text/template.Template and *html/template.Template.
	executor interface {
		ExecuteTemplate(w io.Writer, name string, data interface{}) error
	}

	// emailTemplate holds the parsed variants of one email template; either may be nil.
	emailTemplate struct {
		text executor
		html executor
	}

	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		Locale       string
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Locale          string
		Dir             string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

const emailRoot = "assets/email"

// ParseEmailTemplates parses the embedded email templates; it must be called once before rendering templated messages.
// Every "<name>.txt" and "<name>.gohtml" is parsed with its "_base" layout; a template that fails to parse is logged and skipped.
func ParseEmailTemplates(conf *Config, logger Logger) {
	parsed := make(map[string]*emailTemplate)
	strict := conf.Debug || conf.TestMode

	entries, err := emailFS.ReadDir(emailRoot)
	if err != nil {
		logger.Error(fmt.Sprintf("core.ParseEmailTemplates: %v", err), err)
		return
	}
	for _, e := range entries {
		fname := e.Name()
		if strings.HasPrefix(fname, "_") {
			continue
		}
		ext := path.Ext(fname)
		name := strings.TrimSuffix(fname, ext)

		tmpl, err := parseEmailTemplate(fname, ext, strict)
		if err != nil {
			logger.Error(fmt.Sprintf("core.ParseEmailTemplates(%s): %v", fname, err), err)
			continue
		}
		if tmpl == nil {
			continue
		}
		et, ok := parsed[name]
		if !ok {
			et = new(emailTemplate)
			parsed[name] = et
		}
		if ext == ".txt" {
			et.text = tmpl
		} else {
			et.html = tmpl
		}
	}

	tmplMu.Lock()
	templates = parsed
	tmplMu.Unlock()
}

// parseEmailTemplate returns nil, nil for files that are not templates.
func parseEmailTemplate(fname, ext string, strict bool) (executor, error) {
	files := []string{path.Join(emailRoot, "_base"+ext), path.Join(emailRoot, fname)}
	switch ext {
	case ".txt":
		tmpl, err := texttmpl.ParseFS(emailFS, files...)
		if err != nil {
			return nil, err
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		return tmpl, nil
	case ".gohtml":
		tmpl, err := htmltmpl.ParseFS(emailFS, files...)
		if err != nil {
			return nil, err
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		return tmpl, nil
	}
	return nil, nil
}

func lookupEmailTemplate(name string) *emailTemplate {
	tmplMu.RLock()
	defer tmplMu.RUnlock()
	return templates[name]
}

func (m *EmailMessage) contextData(frontendBaseURL string) ContextData {
	locale := m.Locale
	if !IsSupportedLocale(locale) {
		locale = DefaultLocale
	}
	dir := "ltr"
	if IsRTL(locale) {
		dir = "rtl"
	}
	return ContextData{
		FrontendBaseURL: frontendBaseURL,
		Locale:          locale,
		Dir:             dir,
		Data:            m.TemplateData,
	}
}

func execute(tmpl executor, data ContextData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render fills TextContent and HTMLContent from BodyStr or the message template.
// BodyStr wins over the text variant of the template; unknown templates render nothing.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	et := lookupEmailTemplate(m.TemplateName)
	if et == nil {
		return nil
	}

	data := m.contextData(frontendBaseURL)
	var err error
	if et.text != nil && m.BodyStr == "" {
		if m.TextContent, err = execute(et.text, data); err != nil {
			return err
		}
	}
	if et.html != nil {
		if m.HTMLContent, err = execute(et.html, data); err != nil {
			return err
		}
	}
	return nil
}

// Attach base64-encodes the content of r as an attachment.
// The content type is sniffed when ct is not given.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{
		Filename: filename,
		Content:  bytes.NewBufferString(base64.StdEncoding.EncodeToString(content)),
	}
	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
