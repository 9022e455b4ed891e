package ui

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core"
)

// messages is the UI catalog, per locale. Texts may use {0}, {1}... placeholders, in order.
var messages = map[string]map[string]string{
	core.LocaleFR: {
		"app.title":           "Garderie",
		"nav.dashboard":       "Tableau de bord",
		"nav.children":        "Enfants",
		"nav.my_children":     "Mes enfants",
		"nav.classes":         "Classes",
		"nav.users":           "Utilisateurs",
		"nav.menus":           "Menus",
		"nav.events":          "Événements",
		"nav.inscriptions":    "Inscriptions",
		"nav.presences":       "Présences",
		"nav.resumes":         "Résumés du jour",
		"nav.login":           "Connexion",
		"nav.logout":          "Déconnexion",
		"nav.inscription":     "Demande d'inscription",
		"action.save":         "Enregistrer",
		"action.create":       "Créer",
		"action.edit":         "Modifier",
		"action.delete":       "Supprimer",
		"action.filter":       "Filtrer",
		"action.export_csv":   "Exporter en CSV",
		"action.publish":      "Publier",
		"action.submit":       "Envoyer",
		"action.theme":        "Changer de thème",
		"action.prev":         "Précédent",
		"action.next":         "Suivant",
		"action.prev_week":    "Semaine précédente",
		"action.next_week":    "Semaine suivante",
		"field.first_name":    "Prénom",
		"field.last_name":     "Nom",
		"field.name":          "Nom",
		"field.email":         "E-mail",
		"field.password":      "Mot de passe",
		"field.password_conf": "Confirmation du mot de passe",
		"field.role":          "Rôle",
		"field.phone":         "Téléphone",
		"field.birth_date":    "Date de naissance",
		"field.class":         "Classe",
		"field.all_classes":   "Toutes les classes",
		"field.allergies":     "Allergies",
		"field.guardian":      "Responsable",
		"field.relation":      "Lien de parenté",
		"field.guardian_user": "Compte parent",
		"field.capacity":      "Capacité",
		"field.min_age":       "Âge min. (mois)",
		"field.max_age":       "Âge max. (mois)",
		"field.active":        "Active",
		"field.teachers":      "Enseignants",
		"field.date":          "Date",
		"field.breakfast":     "Petit-déjeuner",
		"field.lunch":         "Déjeuner",
		"field.snack":         "Goûter",
		"field.allergens":     "Allergènes",
		"field.status":        "Statut",
		"field.title":         "Titre",
		"field.description":   "Description",
		"field.start_time":    "Début",
		"field.end_time":      "Fin",
		"field.address":       "Adresse",
		"field.notes":         "Remarques",
		"field.child":         "Enfant",
		"field.appetite":      "Appétit",
		"field.mood":          "Humeur",
		"field.nap":           "Sieste",
		"field.participation": "Participation",
		"field.comment":       "Commentaire",
		"field.search":        "Rechercher",
		"field.age":           "Âge",
		"role.admin":          "Administrateur",
		"role.teacher":        "Enseignant",
		"role.parent":         "Parent",
		"status.present":      "Présent",
		"status.absent":       "Absent",
		"status.justified":    "Absence justifiée",
		"status.draft":        "Brouillon",
		"status.published":    "Publié",
		"status.application":  "Demande",
		"status.in_review":    "En cours d'examen",
		"status.active":       "Active",
		"status.rejected":     "Refusée",
		"status.inactive":     "Inactif",
		"value.good":          "Bon",
		"value.average":       "Moyen",
		"value.poor":          "Faible",
		"value.happy":         "Joyeux",
		"value.calm":          "Calme",
		"value.tired":         "Fatigué",
		"value.upset":         "Contrarié",
		"value.none":          "Aucune",
		"value.short":         "Courte",
		"value.long":          "Longue",
		"value.moderate":      "Modérée",
		"value.passive":       "Passive",
		"login.title":         "Connexion à votre espace",
		"stats.children":      "Enfants inscrits",
		"stats.classes":       "Classes",
		"stats.teachers":      "Enseignants",
		"stats.pending":       "Inscriptions en attente",
		"stats.present":       "Présents aujourd'hui",
		"stats.absent":        "Absents aujourd'hui",
		"stats.attendance":    "Taux de présence : {0} %",
		"page.position":       "Page {0} sur {1}",
		"list.empty":          "Aucun résultat",
		"list.count":          "{0} résultat(s)",
		"menus.week_of":       "Semaine du {0}",
		"menus.none":          "Pas de menu",
		"events.all_classes":  "Tous",
		"flash.created":       "Élément créé.",
		"flash.updated":       "Modifications enregistrées.",
		"flash.deleted":       "Élément supprimé.",
		"flash.inscription":   "Votre demande a bien été envoyée. Nous vous contacterons prochainement.",
		"error.title":         "Une erreur est survenue",
		"error.not_found":     "Page introuvable",
		"error.forbidden":     "Accès refusé",
		"error.generic":       "Une erreur inattendue est survenue. Veuillez réessayer.",
		"error.api":           "Le serveur a répondu : {0}",
		"action.cancel":       "Annuler",
		"age.months":          "{0} mois",
		"children.none":       "Aucun enfant n'est rattaché à votre compte.",
		"classes.none":        "Aucune classe ne vous est attribuée.",
		"events.upcoming":     "Prochains événements",
		"field.all_roles":     "Tous les rôles",
		"field.all_statuses":  "Tous les statuts",
		"field.recorded_by":   "Saisi par",
		"inscription.intro":   "Remplissez ce formulaire pour demander une place pour votre enfant.",
		"lang.other":          "العربية",
		"nav.home":            "Accueil",
		"presences.since":     "Présences depuis le {0}",
		"resumes.none":        "Pas encore de résumé pour ce jour.",
		"value.active":        "Active",
		"decide.in_review":    "Examiner",
		"decide.active":       "Accepter",
		"decide.rejected":     "Refuser",
		"error.transition":    "Ce changement de statut n'est pas permis.",
		"error.date":          "Date invalide (AAAA-MM-JJ)",
		"error.sheet":         "Certaines lignes de la feuille sont invalides.",
		"confirm.delete":      "Confirmer la suppression ?",
	},
	core.LocaleAR: {
		"app.title":           "الحضانة",
		"nav.dashboard":       "لوحة التحكم",
		"nav.children":        "الأطفال",
		"nav.my_children":     "أطفالي",
		"nav.classes":         "الأقسام",
		"nav.users":           "المستخدمون",
		"nav.menus":           "قوائم الطعام",
		"nav.events":          "الأحداث",
		"nav.inscriptions":    "التسجيلات",
		"nav.presences":       "الحضور",
		"nav.resumes":         "ملخصات اليوم",
		"nav.login":           "تسجيل الدخول",
		"nav.logout":          "تسجيل الخروج",
		"nav.inscription":     "طلب التسجيل",
		"action.save":         "حفظ",
		"action.create":       "إنشاء",
		"action.edit":         "تعديل",
		"action.delete":       "حذف",
		"action.filter":       "تصفية",
		"action.export_csv":   "تصدير CSV",
		"action.publish":      "نشر",
		"action.submit":       "إرسال",
		"action.theme":        "تغيير المظهر",
		"action.prev":         "السابق",
		"action.next":         "التالي",
		"action.prev_week":    "الأسبوع السابق",
		"action.next_week":    "الأسبوع التالي",
		"field.first_name":    "الاسم",
		"field.last_name":     "النسب",
		"field.name":          "الاسم",
		"field.email":         "البريد الإلكتروني",
		"field.password":      "كلمة المرور",
		"field.password_conf": "تأكيد كلمة المرور",
		"field.role":          "الدور",
		"field.phone":         "الهاتف",
		"field.birth_date":    "تاريخ الازدياد",
		"field.class":         "القسم",
		"field.all_classes":   "كل الأقسام",
		"field.allergies":     "الحساسية",
		"field.guardian":      "ولي الأمر",
		"field.relation":      "صلة القرابة",
		"field.guardian_user": "حساب ولي الأمر",
		"field.capacity":      "السعة",
		"field.min_age":       "أدنى سن (بالأشهر)",
		"field.max_age":       "أقصى سن (بالأشهر)",
		"field.active":        "نشط",
		"field.teachers":      "المربيات",
		"field.date":          "التاريخ",
		"field.breakfast":     "الفطور",
		"field.lunch":         "الغداء",
		"field.snack":         "اللمجة",
		"field.allergens":     "مسببات الحساسية",
		"field.status":        "الحالة",
		"field.title":         "العنوان",
		"field.description":   "الوصف",
		"field.start_time":    "البداية",
		"field.end_time":      "النهاية",
		"field.address":       "العنوان",
		"field.notes":         "ملاحظات",
		"field.child":         "الطفل",
		"field.appetite":      "الشهية",
		"field.mood":          "المزاج",
		"field.nap":           "القيلولة",
		"field.participation": "المشاركة",
		"field.comment":       "تعليق",
		"field.search":        "بحث",
		"field.age":           "السن",
		"role.admin":          "مدير",
		"role.teacher":        "مربية",
		"role.parent":         "ولي أمر",
		"status.present":      "حاضر",
		"status.absent":       "غائب",
		"status.justified":    "غياب مبرر",
		"status.draft":        "مسودة",
		"status.published":    "منشور",
		"status.application":  "طلب",
		"status.in_review":    "قيد الدراسة",
		"status.active":       "مقبول",
		"status.rejected":     "مرفوض",
		"status.inactive":     "غير نشط",
		"value.good":          "جيدة",
		"value.average":       "متوسطة",
		"value.poor":          "ضعيفة",
		"value.happy":         "سعيد",
		"value.calm":          "هادئ",
		"value.tired":         "متعب",
		"value.upset":         "منزعج",
		"value.none":          "لا شيء",
		"value.short":         "قصيرة",
		"value.long":          "طويلة",
		"value.moderate":      "متوسطة",
		"value.passive":       "ضعيفة",
		"login.title":         "الدخول إلى فضائكم",
		"stats.children":      "الأطفال المسجلون",
		"stats.classes":       "الأقسام",
		"stats.teachers":      "المربيات",
		"stats.pending":       "تسجيلات في الانتظار",
		"stats.present":       "الحاضرون اليوم",
		"stats.absent":        "الغائبون اليوم",
		"stats.attendance":    "نسبة الحضور: {0} %",
		"page.position":       "الصفحة {0} من {1}",
		"list.empty":          "لا توجد نتائج",
		"list.count":          "{0} نتيجة",
		"menus.week_of":       "أسبوع {0}",
		"menus.none":          "لا توجد قائمة",
		"events.all_classes":  "الجميع",
		"flash.created":       "تم الإنشاء.",
		"flash.updated":       "تم حفظ التعديلات.",
		"flash.deleted":       "تم الحذف.",
		"flash.inscription":   "تم إرسال طلبكم بنجاح. سنتصل بكم قريبًا.",
		"error.title":         "حدث خطأ",
		"error.not_found":     "الصفحة غير موجودة",
		"error.forbidden":     "الدخول مرفوض",
		"error.generic":       "حدث خطأ غير متوقع. يرجى المحاولة مرة أخرى.",
		"error.api":           "رد الخادم: {0}",
		"action.cancel":       "إلغاء",
		"age.months":          "{0} شهر",
		"children.none":       "لا يوجد أي طفل مرتبط بحسابكم.",
		"classes.none":        "لم يتم إسناد أي قسم إليكم.",
		"events.upcoming":     "الأحداث القادمة",
		"field.all_roles":     "كل الأدوار",
		"field.all_statuses":  "كل الحالات",
		"field.recorded_by":   "سجله",
		"inscription.intro":   "املؤوا هذه الاستمارة لطلب مكان لطفلكم.",
		"lang.other":          "Français",
		"nav.home":            "الرئيسية",
		"presences.since":     "الحضور منذ {0}",
		"resumes.none":        "لا يوجد ملخص لهذا اليوم بعد.",
		"value.active":        "نشيطة",
		"decide.in_review":    "دراسة الطلب",
		"decide.active":       "قبول",
		"decide.rejected":     "رفض",
		"error.transition":    "تغيير الحالة هذا غير مسموح به.",
		"error.date":          "تاريخ غير صالح (YYYY-MM-DD)",
		"error.sheet":         "بعض أسطر الورقة غير صالحة.",
		"confirm.delete":      "تأكيد الحذف؟",
	},
}

// LoadMessages adds the UI catalog to the translators of uni.
func LoadMessages(uni *ut.UniversalTranslator) error {
	for locale, texts := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return errors.Errorf("no translator for locale %q", locale)
		}
		for key, text := range texts {
			if err := trans.Add(key, text, true); err != nil {
				return errors.Wrapf(err, "adding %s message %q", locale, key)
			}
		}
	}
	return nil
}
