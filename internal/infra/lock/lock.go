// Package lock — pid-файл против второго экземпляра бота: два поллера с
// одним токеном дерутся за апдейты и портят книгу параллельными записями.
package lock

import (
	"fmt"
	"os"
	"strconv"
)

// Acquire создаёт pid-файл; если он уже есть — другой экземпляр работает.
// Возвращает функцию освобождения.
func Acquire(path string) (release func(), err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("lock file %s exists: another instance is running", path)
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
	_ = f.Close()
	return func() { _ = os.Remove(path) }, nil
}
