package emailsvc

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
)

type consoleService struct {
	frontendBaseURL  string
	defaultFromEmail mail.Address
	subjPrefix       string
	out              io.Writer
	logger           core.Logger
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns a service writing messages to stdout instead of sending them.
func NewConsoleService(conf *core.Config, logger core.Logger) core.EmailService {
	return &consoleService{
		frontendBaseURL:  conf.FrontendBaseURL,
		defaultFromEmail: conf.DefaultFromEmail(),
		subjPrefix:       "[" + conf.AppName + "] ",
		out:              os.Stdout,
		logger:           logger,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) bool {
	if err := msg.Render(svc.frontendBaseURL); err != nil {
		svc.logger.Error(fmt.Sprintf("rendering email: %v", err), errors.Wrap(err, "rendering email"))
		return false
	}
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return false
	}
	if err := svc.send(*msg); err != nil {
		svc.logger.Error(fmt.Sprintf("writing email: %v", err), err)
		return false
	}
	return true
}

// send writes msg as a MIME message: multipart/alternative text and HTML bodies,
// wrapped in multipart/mixed when there are attachments.
func (svc consoleService) send(msg core.EmailMessage) error {
	body := new(strings.Builder)

	altW := multipart.NewWriter(body)
	var mixedW *multipart.Writer
	contentType := "multipart/alternative; boundary=" + altW.Boundary()
	if msg.HasAttachments() {
		mixedW = multipart.NewWriter(body)
		contentType = "multipart/mixed; boundary=" + mixedW.Boundary()
	}

	headers := [][2]string{
		{"From", svc.defaultFromEmail.String()},
		{"To", joinAddresses(msg.To)},
		{"Cc", joinAddresses(msg.Cc)},
		{"Bcc", joinAddresses(msg.Bcc)},
		{"Subject", svc.subjPrefix + msg.Subject},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"Content-Language", msg.Locale},
		{"MIME-Version", "1.0"},
		{"Content-Type", contentType},
	}
	for _, h := range headers {
		if h[1] != "" {
			_, _ = fmt.Fprintf(body, "%s: %s\r\n", h[0], h[1])
		}
	}
	_, _ = fmt.Fprint(body, "\r\n")

	if mixedW != nil {
		if _, err := mixedW.CreatePart(textproto.MIMEHeader{"Content-Type": {"multipart/alternative; boundary=" + altW.Boundary()}}); err != nil {
			return errors.Wrap(err, "creating multipart/alternative part")
		}
	}
	if err := writePart(altW, textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}}, msg.TextContent); err != nil {
		return err
	}
	if msg.HTMLContent != "" {
		if err := writePart(altW, textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}}, msg.HTMLContent); err != nil {
			return err
		}
	}
	if err := altW.Close(); err != nil {
		return errors.Wrap(err, "closing multipart/alternative")
	}

	if mixedW != nil {
		for _, at := range msg.Attachments {
			hdr := textproto.MIMEHeader{
				"Content-Type":              {at.ContentType},
				"Content-Transfer-Encoding": {"base64"},
				"Content-Disposition":       {"attachment; filename=" + at.Filename},
			}
			if err := writePart(mixedW, hdr, at.Content.String()); err != nil {
				return err
			}
		}
		if err := mixedW.Close(); err != nil {
			return errors.Wrap(err, "closing multipart/mixed")
		}
	}

	if svc.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(svc.out, body.String())
	return err
}

func writePart(mw *multipart.Writer, hdr textproto.MIMEHeader, content string) error {
	w, err := mw.CreatePart(hdr)
	if err != nil {
		return errors.Wrapf(err, "creating %s part", hdr.Get("Content-Type"))
	}
	_, err = fmt.Fprintf(w, "%s\r\n", content)
	return err
}

func joinAddresses(addrs []mail.Address) string {
	names := make([]string, len(addrs))
	for i, a := range addrs {
		names[i] = a.String()
	}
	return strings.Join(names, ", ")
}

// ConsoleServiceMock sends synchronously, without output, and keeps the sent messages.
type ConsoleServiceMock struct {
	consoleService

	mu   sync.Mutex
	sent []core.EmailMessage
}

func NewConsoleServiceMock(conf *core.Config, logger core.Logger) *ConsoleServiceMock {
	return &ConsoleServiceMock{
		consoleService: consoleService{
			frontendBaseURL:  conf.FrontendBaseURL,
			defaultFromEmail: conf.DefaultFromEmail(),
			subjPrefix:       "[" + conf.AppName + "] ",
			logger:           logger,
		},
	}
}

func (svc *ConsoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		// run synchronously
		if svc.sendMessage(msg) {
			svc.mu.Lock()
			svc.sent = append(svc.sent, *msg)
			svc.mu.Unlock()
		}
	}
}

// Sent returns a copy of the messages sent so far.
func (svc *ConsoleServiceMock) Sent() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}
