package sim

import (
	"battlescape-server/pkg/logger"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Console - человекочитаемый вывод сервера (отдельно от структурного лога).
type Console interface {
	Printf(format string, args ...any)
}

// StatsLog - постоянный журнал строк [STATS]; префикс и время
// добавляет реализация.
type StatsLog interface {
	Append(msg string) error
}

// WriterConsole пишет в io.Writer и дублирует строку в лог.
type WriterConsole struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLogConsole - консоль на stdout.
func NewLogConsole() *WriterConsole { return &WriterConsole{out: os.Stdout} }

// NewWriterConsole - консоль поверх произвольного писателя.
func NewWriterConsole(w io.Writer) *WriterConsole { return &WriterConsole{out: w} }

func (c *WriterConsole) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	fmt.Fprint(c.out, msg)
	c.mu.Unlock()
	logger.Component("console").Debug(strings.TrimRight(msg, "\n"))
}

// RecordingConsole запоминает строки; используется в тестах и в
// ответах на консольные команды по сети.
type RecordingConsole struct {
	Lines []string
}

func (c *RecordingConsole) Printf(format string, args ...any) {
	c.Lines = append(c.Lines, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Contains ищет подстроку во всех строках.
func (c *RecordingConsole) Contains(sub string) bool {
	for _, l := range c.Lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// Reset очищает записанные строки.
func (c *RecordingConsole) Reset() { c.Lines = nil }
