package daycare

import (
	"net/mail"

	"github.com/trezcool/garderie/core"
)

var inscriptionSubjects = map[string]map[string]string{
	core.LocaleFR: {
		"inscription_received": "Demande d'inscription reçue",
		"inscription_decision": "Décision concernant votre demande d'inscription",
	},
	core.LocaleAR: {
		"inscription_received": "تم استلام طلب التسجيل",
		"inscription_decision": "قرار بشأن طلب التسجيل",
	},
}

type inscriptionMailData struct {
	GuardianName string
	ChildName    string
	Accepted     bool
}

func inscriptionMessage(tmpl string, i Inscription, locale string) *core.EmailMessage {
	if !core.IsSupportedLocale(locale) {
		locale = core.DefaultLocale
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: i.GuardianName, Address: i.GuardianEmail}},
		Subject:      inscriptionSubjects[locale][tmpl],
		TemplateName: tmpl,
		Locale:       locale,
		TemplateData: inscriptionMailData{
			GuardianName: i.GuardianName,
			ChildName:    i.ChildName(),
			Accepted:     i.Status == InscriptionActive,
		},
	}
}

// InscriptionReceivedMessage acknowledges an enrollment application to the guardian.
func InscriptionReceivedMessage(i Inscription, locale string) *core.EmailMessage {
	return inscriptionMessage("inscription_received", i, locale)
}

// InscriptionDecisionMessage notifies the guardian of an accepted or rejected application.
// It returns nil while the inscription is pending.
func InscriptionDecisionMessage(i Inscription, locale string) *core.EmailMessage {
	if i.IsPending() {
		return nil
	}
	return inscriptionMessage("inscription_decision", i, locale)
}
