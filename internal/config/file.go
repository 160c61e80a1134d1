package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerSection - параметры процесса из YAML-файла.
type ServerSection struct {
	Port       string `yaml:"port"`
	Seed       int64  `yaml:"seed"`
	ResultsDir string `yaml:"results_dir"`
	StatsLog   string `yaml:"stats_log"`
	IPFile     string `yaml:"ip_file"`
	AIManifest string `yaml:"ai_manifest"`
	Bots       int    `yaml:"bots"`
}

// File - корень YAML-конфига.
//
//	server:
//	  port: "8080"
//	cvars:
//	  mor_panic: 25
//	  sv_maxclients: 2
type File struct {
	Server ServerSection  `yaml:"server"`
	Cvars  map[string]any `yaml:"cvars"`
}

// ParseFile разбирает YAML и возвращает структуру без применения.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &f, nil
}

// LoadFile читает YAML с диска, применяет cvars к реестру
// и возвращает серверную секцию.
func (r *Registry) LoadFile(path string) (*ServerSection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	r.ApplyFile(f)
	return &f.Server, nil
}

// ApplyFile записывает значения из секции cvars.
func (r *Registry) ApplyFile(f *File) {
	for name, raw := range f.Cvars {
		r.Set(name, fmt.Sprint(raw))
	}
}
