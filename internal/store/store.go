package store

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Store — адаптер над xlsx-книгой: типизированные операции чтения/записи
// строк по 1-based номерам. Книга — единственное хранилище данных бота,
// транзакций у неё нет, поэтому каждый вызов сразу сохраняет файл.
type Store struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

// Open открывает книгу по пути или создаёт новую, если файла ещё нет.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook: %w", err)
		}
		return &Store{path: path, f: f}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Store{path: path, f: f}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// EnsureSheet создаёт лист с заголовком, если его ещё нет.
func (s *Store) EnsureSheet(name string, header []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, _ := s.f.GetSheetIndex(name); idx >= 0 {
		return nil
	}
	if _, err := s.f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %q: %w", name, err)
	}
	if len(header) > 0 {
		if err := s.f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %q header: %w", name, err)
		}
	}
	return s.save()
}

// SheetNameContaining ищет лист, в названии которого есть подстрока
// (склад живёт на листе с «СКЛАД» в заголовке).
func (s *Store) SheetNameContaining(substr string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.f.GetSheetList() {
		if strings.Contains(name, substr) {
			return name, true
		}
	}
	return "", false
}

// Rows возвращает все строки листа; строка i книги — rows[i-1].
func (s *Store) Rows(sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// Range возвращает строки from..to включительно (1-based).
func (s *Store) Range(sheet string, from, to int) ([][]string, error) {
	rows, err := s.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if from < 1 {
		from = 1
	}
	if to > len(rows) {
		to = len(rows)
	}
	if from > to {
		return nil, nil
	}
	out := make([][]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, rows[i-1])
	}
	return out, nil
}

func (s *Store) UpdateCell(sheet string, row, col int, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d:%d: %w", row, col, err)
	}
	if err := s.f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("update %s!%s: %w", sheet, cell, err)
	}
	return s.save()
}

// SetRow записывает значения в строку начиная с колонки A.
func (s *Store) SetRow(sheet string, row int, vs []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := s.f.SetSheetRow(sheet, cell, &vs); err != nil {
		return fmt.Errorf("set row %s!%d: %w", sheet, row, err)
	}
	return s.save()
}

// InsertRow вставляет строку со значениями перед строкой row;
// все последующие номера строк сдвигаются на единицу вниз.
func (s *Store) InsertRow(sheet string, row int, vs []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.f.InsertRows(sheet, row, 1); err != nil {
		return fmt.Errorf("insert row %s!%d: %w", sheet, row, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(sheet, cell, &vs); err != nil {
		return fmt.Errorf("fill row %s!%d: %w", sheet, row, err)
	}
	return s.save()
}

// DeleteRows удаляет строки from..to включительно.
func (s *Store) DeleteRows(sheet string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := to; i >= from; i-- {
		if err := s.f.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("delete row %s!%d: %w", sheet, i, err)
		}
	}
	return s.save()
}

// Emphasize выделяет диапазон строки (итоговую строку блока) жирным.
func (s *Store) Emphasize(sheet string, row, fromCol, toCol int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	style, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6FFE6"}},
	})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	if err := s.f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("style %s!%s:%s: %w", sheet, from, to, err)
	}
	return s.save()
}

func (s *Store) save() error {
	if err := s.f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
