//go:build !windows
// +build !windows

package cmd

import (
	"log/syslog"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"

	"github.com/brocaar/sx130x-freq/internal/config"
)

const syslogTag = "sx130x-freq"

// syslogSeverities maps the log levels to the severity the syslog hook
// filters on. Trace and panic fold into their nearest syslog counterpart.
var syslogSeverities = map[log.Level]syslog.Priority{
	log.TraceLevel: syslog.LOG_DEBUG,
	log.DebugLevel: syslog.LOG_DEBUG,
	log.InfoLevel:  syslog.LOG_INFO,
	log.WarnLevel:  syslog.LOG_WARNING,
	log.ErrorLevel: syslog.LOG_ERR,
	log.FatalLevel: syslog.LOG_CRIT,
	log.PanicLevel: syslog.LOG_CRIT,
}

// syslogPriority returns the user facility priority for the given level.
// Unknown levels are logged as warnings, matching the default log level.
func syslogPriority(level log.Level) syslog.Priority {
	sev, ok := syslogSeverities[level]
	if !ok {
		sev = syslog.LOG_WARNING
	}
	return syslog.LOG_USER | sev
}

func setSyslog() error {
	if !config.C.General.LogToSyslog {
		return nil
	}

	level := log.StandardLogger().GetLevel()
	hook, err := lsyslog.NewSyslogHook("", "", syslogPriority(level), syslogTag)
	if err != nil {
		return errors.Wrap(err, "get syslog hook error")
	}

	log.AddHook(hook)
	log.WithField("level", level).Debug("syslog hook added")

	return nil
}
