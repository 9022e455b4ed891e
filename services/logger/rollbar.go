package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/core/user"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelFatal
)

var levels = [...]struct {
	name   string
	report func(...interface{})
}{
	levelDebug: {"DEBUG", rollbar.Debug},
	levelInfo:  {"INFO", rollbar.Info},
	levelWarn:  {"WARN", rollbar.Warning},
	levelError: {"ERROR", rollbar.Error},
	levelFatal: {"FATAL", rollbar.Critical},
}

// RollbarLogger reports to rollbar (when a token is configured) and echoes entries to a std logger.
// Debug entries are echoed in debug mode only.
type RollbarLogger struct {
	std      *log.Logger
	minLevel level
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)

	l := &RollbarLogger{std: std, minLevel: levelInfo}
	if conf.Debug {
		l.minLevel = levelDebug
	}
	return l
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns the args into rollbar's (msg, error, extras) form.
// The first user.User or *user.User becomes the rollbar person and is dropped from the args.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var person *user.User
	out := make([]interface{}, 1, len(args)+1)
	out[0] = msg
	for _, arg := range args {
		switch u := arg.(type) {
		case user.User:
			if person == nil {
				person = &u
			}
		case *user.User:
			if person == nil && u != nil {
				person = u
			}
		default:
			out = append(out, arg)
		}
	}
	if person != nil {
		rollbar.SetPerson(strconv.Itoa(person.ID), person.FullName(), person.Email)
	} else {
		rollbar.ClearPerson()
	}
	return out
}

func (l RollbarLogger) log(lvl level, msg string, args []interface{}) {
	levels[lvl].report(l.prepare(msg, args)...)
	if lvl < l.minLevel {
		return
	}
	l.std.Println(levels[lvl].name, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(levelDebug, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(levelInfo, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(levelWarn, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(levelError, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(levelFatal, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
