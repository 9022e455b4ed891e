package emailsvc

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/services/logger"
)

func testConfig() *core.Config {
	return &core.Config{
		TestMode:        true,
		Env:             "TEST",
		AppName:         "Garderie",
		FrontendBaseURL: "http://garderie.test",
		SendgridApiKey:  "sg-key",
	}
}

func testLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

var inscription = daycare.Inscription{
	ChildFirstName: "Lina",
	ChildLastName:  "Tazi",
	GuardianName:   "Samira Tazi",
	GuardianEmail:  "samira@test.ma",
	Status:         daycare.InscriptionApplication,
}

func TestConsoleServiceMock_InscriptionReceived(t *testing.T) {
	conf := testConfig()
	logger := testLogger(conf)
	core.ParseEmailTemplates(conf, logger)

	tests := []struct {
		locale   string
		wantText string
		wantDir  string
	}{
		{locale: core.LocaleFR, wantText: "Bonjour Samira Tazi", wantDir: `dir="ltr"`},
		{locale: core.LocaleAR, wantText: "مرحبًا Samira Tazi", wantDir: `dir="rtl"`},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			svc := NewConsoleServiceMock(conf, logger)
			svc.SendMessages(daycare.InscriptionReceivedMessage(inscription, tt.locale))

			sent := svc.Sent()
			if !assert.Len(t, sent, 1) {
				return
			}
			msg := sent[0]
			assert.Equal(t, []mail.Address{{Name: "Samira Tazi", Address: "samira@test.ma"}}, msg.To)
			assert.Contains(t, msg.TextContent, tt.wantText)
			assert.Contains(t, msg.TextContent, "Lina Tazi")
			assert.Contains(t, msg.TextContent, "http://garderie.test/"+tt.locale)
			assert.Contains(t, msg.HTMLContent, tt.wantDir)
		})
	}
}

func TestConsoleServiceMock_Decision(t *testing.T) {
	conf := testConfig()
	logger := testLogger(conf)
	core.ParseEmailTemplates(conf, logger)
	svc := NewConsoleServiceMock(conf, logger)

	assert.Nil(t, daycare.InscriptionDecisionMessage(inscription, core.LocaleFR))

	accepted := inscription
	accepted.Status = daycare.InscriptionActive
	rejected := inscription
	rejected.Status = daycare.InscriptionRejected
	svc.SendMessages(
		daycare.InscriptionDecisionMessage(accepted, core.LocaleFR),
		daycare.InscriptionDecisionMessage(rejected, core.LocaleFR),
	)

	sent := svc.Sent()
	if assert.Len(t, sent, 2) {
		assert.Contains(t, sent[0].TextContent, "est acceptée")
		assert.Contains(t, sent[1].TextContent, "n'a pas pu être acceptée")
	}
}

func TestConsoleServiceMock_SkipsEmptyMessages(t *testing.T) {
	conf := testConfig()
	svc := NewConsoleServiceMock(conf, testLogger(conf))
	svc.SendMessages(
		&core.EmailMessage{Subject: "no recipient", BodyStr: "hi"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@test.ma"}}, Subject: "no content"},
	)
	assert.Len(t, svc.Sent(), 0)
}

func TestConsoleService_Output(t *testing.T) {
	conf := testConfig()
	var out bytes.Buffer
	svc := consoleService{
		defaultFromEmail: mail.Address{Name: "Garderie", Address: "noreply@garderie.test"},
		subjPrefix:       "[Garderie] ",
		out:              &out,
		logger:           testLogger(conf),
	}
	msg := &core.EmailMessage{To: []mail.Address{{Address: "a@test.ma"}}, Subject: "Export", BodyStr: "ci-joint", Locale: core.LocaleFR}
	if err := msg.Attach(strings.NewReader("\"date\"\r\n"), "presences.csv", "text/csv"); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	assert.True(t, svc.sendMessage(msg))
	assert.Contains(t, out.String(), "Subject: [Garderie] Export\r\n")
	assert.Contains(t, out.String(), "multipart/mixed")
	assert.Contains(t, out.String(), "filename=presences.csv")
	assert.Contains(t, out.String(), "Content-Language: fr\r\n")
	assert.NotContains(t, out.String(), "Cc:")
}

func TestSendgridService_send(t *testing.T) {
	var (
		mu      sync.Mutex
		auth    string
		payload map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	conf := testConfig()
	svc := newSendgridService(conf, testLogger(conf), srv.URL)
	err := svc.send(core.EmailMessage{
		To:           []mail.Address{{Name: "Samira", Address: "samira@test.ma"}},
		Subject:      "Bienvenue",
		TextContent:  "Bonjour",
		TemplateName: "inscription_received",
		Locale:       core.LocaleAR,
	})
	assert.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer sg-key", auth)
	pers, _ := payload["personalizations"].([]interface{})
	if assert.Len(t, pers, 1) {
		p := pers[0].(map[string]interface{})
		assert.Equal(t, "[Garderie] Bienvenue", p["subject"])
		assert.Equal(t, map[string]interface{}{"locale": "ar"}, p["custom_args"])
	}
	content, _ := payload["content"].([]interface{})
	assert.Len(t, content, 1)
	assert.Equal(t, []interface{}{"inscription_received"}, payload["categories"])
}

func TestSendgridService_sendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"invalid key"}]}`))
	}))
	defer srv.Close()

	conf := testConfig()
	svc := newSendgridService(conf, testLogger(conf), srv.URL)
	err := svc.send(core.EmailMessage{To: []mail.Address{{Address: "a@test.ma"}}, Subject: "x", TextContent: "y"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "invalid key")
	}
}
