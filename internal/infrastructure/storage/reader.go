package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

func (s *ResultsService) Load(path string) (*MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*MatchRecord, error) {
	// 1. Читаем заголовок целиком
	var header ResultsFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrBadMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.Len < 0 {
		return nil, fmt.Errorf("negative payload length %d", header.Len)
	}

	rec := &MatchRecord{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Winner:    int(header.Winner),
		Payload:   make([]byte, header.Len),
	}

	// 2. Читаем нагрузку
	if _, err := io.ReadFull(r, rec.Payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return rec, nil
}
