package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/daycare"
	"github.com/trezcool/garderie/core/user"
	"github.com/trezcool/garderie/services/apiclient"
)

// exportPresences writes the presences of date (today when empty) as CSV to outPath, or to the CLI output.
func (cli *commandLine) exportPresences(api *apiclient.Client, date string, classID int, outPath string) error {
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}
	if _, err := daycare.ParseDate(date); err != nil {
		return errors.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	var (
		children  []daycare.Child
		classes   []daycare.Class
		presences []daycare.Presence
		users     []user.User
	)
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() (err error) {
		children, err = api.ListChildren(ctx, apiclient.ChildQuery{ClassID: classID})
		return err
	})
	g.Go(func() (err error) {
		classes, err = api.ListClasses(ctx)
		return err
	})
	g.Go(func() (err error) {
		presences, err = api.ListPresences(ctx, apiclient.PresenceQuery{Date: date, ClassID: classID})
		return err
	})
	g.Go(func() (err error) {
		users, err = api.ListUsers(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	recorders := make(map[int]string, len(users))
	for _, u := range users {
		recorders[u.ID] = u.FullName()
	}
	rows := daycare.PresenceRows(presences, children, classes, recorders)

	var w io.Writer = cli.out
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "creating export file")
		}
		defer f.Close()
		w = f
	}
	return errors.Wrap(daycare.WritePresencesCSV(w, rows), "writing presences CSV")
}
