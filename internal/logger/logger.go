package logger

import (
	"os"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"

	logger_util "github.com/free5gc/util/logger"
)

var Log *logrus.Logger

var (
	MainLog    *logrus.Entry
	AppLog     *logrus.Entry
	InitLog    *logrus.Entry
	CfgLog     *logrus.Entry
	ContextLog *logrus.Entry
	IKELog     *logrus.Entry
	UtilLog    *logrus.Entry
)

func init() {
	Log = logrus.New()
	Log.SetReportCaller(false)

	Log.Formatter = &formatter.Formatter{
		TimestampFormat: time.RFC3339,
		TrimMessages:    true,
		NoFieldsSpace:   true,
		HideKeys:        true,
		FieldsOrder:     []string{"component", "category"},
	}

	MainLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "Main"})
	AppLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "App"})
	InitLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "Init"})
	CfgLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "CFG"})
	ContextLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "Context"})
	IKELog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "IKE"})
	UtilLog = Log.WithFields(logrus.Fields{"component": "IKEMSG", "category": "Util"})
}

func LogFileHook(logNfPath string) error {
	if fullPath, err := logger_util.CreateNfLogFile(logNfPath, "ikemsg.log"); err == nil {
		selfLogHook, hookErr := logger_util.NewFileHook(fullPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o666)
		if hookErr != nil {
			return hookErr
		}
		Log.Hooks.Add(selfLogHook)
	} else {
		return err
	}

	return nil
}

func SetLogLevel(level logrus.Level) {
	Log.SetLevel(level)
}

func SetReportCaller(enable bool) {
	Log.SetReportCaller(enable)
}
