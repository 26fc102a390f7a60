package speech

import (
	"errors"
	"fmt"
)

// ErrFileIO общий признак ошибки работы с временным файлом
var ErrFileIO = errors.New("ошибка временного файла")

// FileError описывает сбой записи аудио на диск
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrFileIO, e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Is(target error) bool {
	return target == ErrFileIO
}
