package feedback

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
)

// Parse разбирает ответ модели в out.
// Сначала строгий JSON, затем разбор литерала в стиле Python внутри первой пары {...}.
// Объект без обязательных ключей схемы считается ошибкой, null (None) равносилен отсутствию ключа:
// частичные данные не возвращаются.
func Parse(content string, out Schema) error {
	obj, strictErr := decodeStrict(content)
	if strictErr != nil {
		var literalErr error
		obj, literalErr = decodeLiteral(content)
		if literalErr != nil {
			return errors.Wrapf(apperrors.ErrResponseParse, "json: %v; literal: %v", strictErr, literalErr)
		}
	}
	var missing []string
	for _, key := range out.RequiredKeys() {
		if value, ok := obj[key]; !ok || value == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(apperrors.ErrResponseParse, "нет обязательных полей: %s", strings.Join(missing, ", "))
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(apperrors.ErrResponseParse, err.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(apperrors.ErrResponseParse, "несовпадение типов полей: %v", err)
	}
	return nil
}

func decodeStrict(content string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(content))))
	var obj map[string]any
	if err := decoder.Decode(&obj); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("лишние данные после объекта")
	}
	if obj == nil {
		return nil, errors.New("ответ не является объектом")
	}
	return obj, nil
}

func decodeLiteral(content string) (map[string]any, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, errors.New("в ответе нет объекта")
	}
	value, err := parseLiteral(content[start : end+1])
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("ответ не является объектом")
	}
	return obj, nil
}
