package initchecker

import (
	"reflect"

	"github.com/pkg/errors"
)

// Check принимает пары "имя, зависимость" и возвращает ошибку для первой неинициализированной.
// Интерфейс с nil-указателем внутри тоже считается неинициализированным.
func Check(pairs ...any) error {
	if len(pairs)%2 != 0 {
		return errors.New("нечетное количество аргументов")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return errors.Errorf("аргумент %d должен быть именем зависимости", i)
		}
		if isNil(pairs[i+1]) {
			return errors.Errorf("зависимость %s не инициализирована", name)
		}
	}
	return nil
}

// MustCheck для сборки сервисов при старте
func MustCheck(pairs ...any) {
	if err := Check(pairs...); err != nil {
		panic(err.Error())
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
