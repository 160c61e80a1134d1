package main

import (
	"battlescape-server/internal/infrastructure/storage"
	"battlescape-server/pkg/utils"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "list":
		dir := "results"
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		if err := list(dir); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "seed":
		if len(os.Args) < 3 {
			fmt.Println("Usage: bsrinfo seed <match_name>")
			return
		}
		fmt.Println(utils.StringToSeed(os.Args[2]))
	case "time":
		if len(os.Args) < 3 {
			fmt.Println("Usage: bsrinfo time <file.bsr>")
			return
		}
		rec, err := storage.NewResultsService(filepath.Dir(os.Args[2])).Load(os.Args[2])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(time.Unix(rec.Timestamp, 0).Format(time.RFC3339))
	default:
		printHelp()
	}
}

// list печатает итоги матчей из каталога, от старых к новым.
func list(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.bsr"))
	if err != nil {
		return err
	}
	svc := storage.NewResultsService(dir)
	var recs []*storage.MatchRecord
	names := make(map[*storage.MatchRecord]string)
	for _, p := range paths {
		rec, err := svc.Load(p)
		if err != nil {
			fmt.Printf("%s: %v\n", filepath.Base(p), err)
			continue
		}
		recs = append(recs, rec)
		names[rec] = filepath.Base(p)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Timestamp < recs[j].Timestamp })

	for _, rec := range recs {
		fmt.Printf("%-40s %s  seed %-20d winner %d  %d bytes\n",
			names[rec], time.Unix(rec.Timestamp, 0).Format(time.RFC3339), rec.Seed, rec.Winner, len(rec.Payload))
	}
	return nil
}

func printHelp() {
	fmt.Println(`bsrinfo - просмотр файлов итогов матчей
Commands:
  list [dir]        - все .bsr в каталоге: время, сид, победитель
  time <file.bsr>   - время записи файла в читаемом формате
  seed <name>       - сид, который сервер возьмет для -match <name>`)
}
