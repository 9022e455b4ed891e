package daycare

import (
	"strings"

	"github.com/trezcool/garderie/core"
)

type ChildFilter struct {
	Search  string `query:"search"`
	ClassID int    `query:"class_id"`
}

func (f *ChildFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	if f.ClassID < 0 {
		f.ClassID = 0
	}
}

// FilterChildren keeps children whose full name contains Search (case-insensitive) and belonging to ClassID when set.
func FilterChildren(children []Child, f ChildFilter) []Child {
	search := strings.ToLower(core.CleanString(f.Search))
	res := make([]Child, 0, len(children))
	for _, c := range children {
		if f.ClassID > 0 && (!c.ClassID.Valid || c.ClassID.Int != f.ClassID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.FullName()), search) {
			continue
		}
		res = append(res, c)
	}
	return res
}

type InscriptionFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

func (f *InscriptionFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	if !isOneOf(f.Status, InscriptionStatuses) {
		f.Status = ""
	}
}

// FilterInscriptions matches Search against the child and guardian names.
func FilterInscriptions(inscriptions []Inscription, f InscriptionFilter) []Inscription {
	search := strings.ToLower(core.CleanString(f.Search))
	res := make([]Inscription, 0, len(inscriptions))
	for _, i := range inscriptions {
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(i.ChildName()), search) &&
			!strings.Contains(strings.ToLower(i.GuardianName), search) {
			continue
		}
		res = append(res, i)
	}
	return res
}

// ChildrenOf returns the children whose guardians include the given user.
func ChildrenOf(children []Child, userID int) []Child {
	res := make([]Child, 0)
	for _, c := range children {
		if c.HasGuardian(userID) {
			res = append(res, c)
		}
	}
	return res
}

// ClassesOf returns the classes the given teacher is assigned to.
func ClassesOf(classes []Class, teacherID int) []Class {
	res := make([]Class, 0)
	for _, c := range classes {
		if c.HasTeacher(teacherID) {
			res = append(res, c)
		}
	}
	return res
}

// ClassIDs returns the IDs of classes.
func ClassIDs(classes []Class) []int {
	ids := make([]int, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}

// EventsFor keeps events visible to any of the given classes.
func EventsFor(events []Event, classIDs ...int) []Event {
	res := make([]Event, 0, len(events))
	for _, e := range events {
		if e.IsVisibleTo(classIDs...) {
			res = append(res, e)
		}
	}
	return res
}

func isOneOf(s string, values []string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
