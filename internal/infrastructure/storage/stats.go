package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// StatsTimeLayout - формат отметки времени в журнале статистики.
const StatsTimeLayout = "2006/01/02 15:04:05"

// StatsFormatter печатает запись как "[STATS] YYYY/MM/DD HH:MM:SS - msg".
type StatsFormatter struct{}

func (StatsFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("[STATS] %s - %s\n", e.Time.Format(StatsTimeLayout), e.Message)), nil
}

// StatsLog - журнал [STATS] на отдельном логгере logrus поверх файла,
// открытого на дозапись. Файл открывается при первой записи.
type StatsLog struct {
	Path string

	mu   sync.Mutex
	file *os.File
	log  *logrus.Logger
}

func NewStatsLog(path string) *StatsLog {
	l := logrus.New()
	l.SetFormatter(StatsFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return &StatsLog{Path: path, log: l}
}

// Append пишет сообщение в журнал.
func (l *StatsLog) Append(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open stats log: %w", err)
		}
		l.file = f
		l.log.SetOutput(f)
	}
	l.log.Info(msg)
	return nil
}

// Close закрывает файл журнала. Следующий Append откроет его заново.
func (l *StatsLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
