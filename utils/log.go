package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CustomFormatter 自定义日志格式
type CustomFormatter struct {
	logrus.JSONFormatter
}

// Format 实现自定义格式化
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// 获取调用信息
	if _, ok := entry.Data["file"]; !ok {
		if pc, file, line, ok := runtime.Caller(8); ok {
			funcName := runtime.FuncForPC(pc).Name()
			entry.Data["file"] = filepath.Base(file)
			entry.Data["line"] = line
			entry.Data["func"] = filepath.Base(funcName)
		}
	}

	entry.Data["@timestamp"] = entry.Time.Format(time.RFC3339)
	entry.Data["pid"] = os.Getpid()

	return f.JSONFormatter.Format(entry)
}

// Log is the global logger instance
var (
	Log  *logrus.Logger
	once sync.Once
)

// initLogger initializes the logger
func initLogger(logFilePath string) {
	Log = logrus.New()

	// 使用自定义格式化器
	Log.SetFormatter(&CustomFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		},
	})

	// 创建日志目录
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		panic(fmt.Sprintf("failed to create log directory: %v", err))
	}

	// 设置日志输出；CLI 的正常输出走 stdout，日志走 stderr 和滚动文件
	Log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}))

	Log.SetLevel(logrus.InfoLevel)
	if os.Getenv("PURL_DEBUG") != "" {
		Log.SetLevel(logrus.DebugLevel)
	}
}

// GetLogger returns the singleton logger instance.
// 日志路径通过 PURL_LOG_PATH 覆盖，默认写入工作目录下的 log/purl_tools.log
func GetLogger() *logrus.Logger {
	once.Do(func() {
		path := os.Getenv("PURL_LOG_PATH")
		if path == "" {
			path = filepath.Join("log", "purl_tools.log")
		}
		initLogger(path)
	})
	return Log
}
