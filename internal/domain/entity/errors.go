package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCode код не соответствует формату 3–5 цифр
	ErrInvalidCode = errors.New("invalid film code")
	// ErrCodeNotDigits в коде есть символы кроме цифр
	ErrCodeNotDigits = fmt.Errorf("%w: digits only", ErrInvalidCode)
	// ErrCodeLength длина кода вне диапазона 3–5
	ErrCodeLength = fmt.Errorf("%w: 3-5 digits", ErrInvalidCode)

	// ErrFilmNotFound фильма с таким кодом нет в каталоге
	ErrFilmNotFound = errors.New("film not found")
	// ErrDuplicateCode код уже занят
	ErrDuplicateCode = errors.New("film code already exists")
	// ErrNoMedia запись есть, но видео ещё не загружено
	ErrNoMedia = errors.New("film has no media yet")

	// ErrStorageRead не удалось прочитать локальное хранилище
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite не удалось записать локальное хранилище
	ErrStorageWrite = errors.New("storage write failed")
	// ErrMirror не удалось синхронизировать каталог с удалённым хранилищем
	ErrMirror = errors.New("catalog mirror failed")
	// ErrMirrorConflict удалённая ревизия изменилась между чтением и записью
	ErrMirrorConflict = fmt.Errorf("%w: revision conflict", ErrMirror)
	// ErrStaleChoice кнопка выбора относится к завершённому или чужому сценарию
	ErrStaleChoice = errors.New("choice is no longer valid")
	// ErrUpstream внешний API недоступен или ответил ошибкой
	ErrUpstream = errors.New("upstream api failed")
)
