// Package filter - список IP-масок сервера (addip/removeip/listip/writeip).
// Маска задается как a.b.c.d, нулевой октет совпадает с любым значением.
package filter

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
)

// MaxMasks - предел размера списка.
const MaxMasks = 1024

var (
	ErrBadMask = errors.New("bad filter address")
	ErrFull    = errors.New("IP filter list is full")
)

type ipMask struct {
	mask    uint32
	compare uint32
}

func (m ipMask) String() string {
	b := m.compare
	return fmt.Sprintf("%d.%d.%d.%d", b>>24, (b>>16)&0xff, (b>>8)&0xff, b&0xff)
}

// parse разбирает маску. Можно указать меньше четырех октетов:
// недостающие считаются нулевыми.
func parse(s string) (ipMask, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 4 || parts[0] == "" {
		return ipMask{}, fmt.Errorf("%w: %s", ErrBadMask, s)
	}
	var m ipMask
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return ipMask{}, fmt.Errorf("%w: %s", ErrBadMask, s)
		}
		shift := uint(24 - 8*i)
		m.compare |= uint32(v) << shift
		if v != 0 {
			m.mask |= 0xff << shift
		}
	}
	return m, nil
}

func addrOf(ip string) (uint32, bool) {
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	v4 := net.ParseIP(ip).To4()
	if v4 == nil {
		return 0, false
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3]), true
}

// Filter - потокобезопасный список масок: консоль пишет из горутины
// матча, рукопожатие websocket читает из своих.
type Filter struct {
	mu    sync.RWMutex
	masks []ipMask
}

func New() *Filter { return &Filter{} }

// Add добавляет маску в конец списка.
func (f *Filter) Add(s string) error {
	m, err := parse(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.masks) >= MaxMasks {
		return ErrFull
	}
	f.masks = append(f.masks, m)
	return nil
}

// Remove удаляет первую точно совпадающую маску.
func (f *Filter) Remove(s string) (bool, error) {
	m, err := parse(s)
	if err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.masks {
		if x == m {
			f.masks = append(f.masks[:i], f.masks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// List - маски в порядке добавления.
func (f *Filter) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.masks))
	for i, m := range f.masks {
		out[i] = m.String()
	}
	return out
}

func (f *Filter) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.masks)
}

// Blocked сообщает, нужно ли отклонить адрес. При ban=true (sv_filterban 1)
// отклоняются адреса из списка, при ban=false - все остальные.
// Нераспознанный адрес отклоняется только в режиме белого списка.
func (f *Filter) Blocked(ip string, ban bool) bool {
	addr, ok := addrOf(ip)
	if !ok {
		return !ban
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, m := range f.masks {
		if addr&m.mask == m.compare {
			return ban
		}
	}
	return !ban
}

// WriteFile сохраняет список в формате консоли: строка sv_filterban и
// по строке "sv addip" на маску.
func (f *Filter) WriteFile(path string, filterban int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write ip list: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "set sv_filterban %d\n", filterban)
	for _, m := range f.List() {
		fmt.Fprintf(w, "sv addip %s\n", m)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write ip list: %w", err)
	}
	return nil
}

// LoadFile читает файл, записанный WriteFile. Возвращает значение
// sv_filterban из файла (-1, если строки нет). Отсутствующий файл не ошибка.
func (f *Filter) LoadFile(path string) (int, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return -1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("load ip list: %w", err)
	}
	defer file.Close()

	ban := -1
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		switch {
		case len(fields) == 3 && fields[0] == "set" && fields[1] == "sv_filterban":
			if v, err := strconv.Atoi(fields[2]); err == nil {
				ban = v
			}
		case len(fields) == 3 && fields[0] == "sv" && fields[1] == "addip":
			if err := f.Add(fields[2]); err != nil {
				return ban, err
			}
		}
	}
	return ban, sc.Err()
}
