package log

import (
	"os"
	"path"

	"github.com/sirupsen/logrus"
)

var (
	mockLogFileSize        = "1024"
	mockLoggingModule      = "console"
	mockLogLevel           = "info"
	mockLogFileDir         = os.TempDir()
	mockMaxBackups    uint = 3
)

// MockInitLogging mock init the logging service
func MockInitLogging(logName string) {
	if err := InitLogging(&Config{
		LogName:       logName,
		LogFileSize:   mockLogFileSize,
		LoggingModule: mockLoggingModule,
		LogLevel:      mockLogLevel,
		LogFileDir:    mockLogFileDir,
		MaxBackups:    mockMaxBackups,
	}); err != nil {
		logrus.Errorf("init logging: %s failed. error: %v", logName, err)
	}
}

// MockStopLogging mock stop the logging service
func MockStopLogging(logName string) {
	logFile := path.Join(mockLogFileDir, logName)
	if err := os.RemoveAll(logFile); err != nil {
		logrus.Errorf("Remove file: %s failed. error: %s", logFile, err)
	}
}
