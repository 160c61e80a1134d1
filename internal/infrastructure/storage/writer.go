// Package storage сохраняет итоги матчей (.bsr) и журнал статистики.
package storage

import (
	"battlescape-server/pkg/logger"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `BSRS` // 4 байта
	Version1    uint32 = 1
)

var ErrBadMagic = errors.New("not a battlescape results file")

// ResultsFileHeader — это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ResultsFileHeader struct {
	Magic     [4]byte // 4 байта
	Version   uint32  // 4 байта
	Seed      int64   // 8 байт
	Timestamp int64   // 8 байт
	Winner    int32   // 4 байта
	Len       int32   // 4 байта
}

// MatchRecord - итог матча: сид, время, победитель и нагрузка EV_RESULTS как есть.
type MatchRecord struct {
	Seed      int64
	Timestamp int64
	Winner    int
	Payload   []byte
}

type ResultsService struct {
	SaveDir string
}

func NewResultsService(dir string) *ResultsService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &ResultsService{SaveDir: dir}
}

// Save пишет файл results_<seed>_<timestamp>.bsr и возвращает путь.
func (s *ResultsService) Save(rec *MatchRecord) (string, error) {
	filename := fmt.Sprintf("results_%d_%d.bsr", rec.Seed, rec.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, rec); err != nil {
		return "", err
	}

	logger.Component("storage").WithFields(logrus.Fields{
		"path":   path,
		"winner": rec.Winner,
		"bytes":  len(rec.Payload),
	}).Info("Results saved")
	return path, nil
}

func writeBinary(w io.Writer, rec *MatchRecord) error {
	header := ResultsFileHeader{
		Version:   Version1,
		Seed:      rec.Seed,
		Timestamp: rec.Timestamp,
		Winner:    int32(rec.Winner),
		Len:       int32(len(rec.Payload)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(rec.Payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}
