package network

import (
	"battlescape-server/pkg/api"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeFrame упаковывает кадр для бинарного websocket-сообщения.
func EncodeFrame(f api.ServerFrame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// DecodeFrame - обратная операция (боты и тестовые клиенты).
func DecodeFrame(data []byte) (api.ServerFrame, error) {
	var f api.ServerFrame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return api.ServerFrame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}
