package feedback

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// parseLiteral разбирает литерал словаря в стиле Python: строки в одинарных или двойных кавычках,
// True/False/None наряду с true/false/null, висячие запятые, кортежи как списки.
func parseLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	value, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("лишние символы после литерала")
	}
	return value, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return errors.Errorf("позиция %d: "+format, append([]any{p.pos}, args...)...)
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("неожиданный конец литерала")
	case c == '{':
		return p.dict()
	case c == '[':
		return p.list('[', ']')
	case c == '(':
		return p.list('(', ')')
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.keyword()
	}
}

func (p *literalParser) dict() (any, error) {
	p.pos++
	result := map[string]any{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return result, nil
		}
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		keyStr, ok := key.(string)
		if !ok {
			return nil, p.errorf("ключ словаря должен быть строкой")
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("ожидается ':'")
		}
		p.pos++
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		result[keyStr] = val
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("ожидается ',' или '}'")
		}
	}
}

func (p *literalParser) list(open, closing byte) (any, error) {
	p.pos++
	result := []any{}
	for {
		p.skipSpace()
		if p.peek() == closing {
			p.pos++
			return result, nil
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		result = append(result, val)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
		default:
			return nil, p.errorf("ожидается ',' или '%c' после элемента '%c'", closing, open)
		}
	}
}

func (p *literalParser) str() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return nil, p.errorf("незавершённая escape-последовательность")
			}
			esc := p.src[p.pos+1]
			p.pos += 2
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'u':
				if p.pos+4 > len(p.src) {
					return nil, p.errorf("некорректная последовательность \\u")
				}
				code, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return nil, p.errorf("некорректная последовательность \\u")
				}
				sb.WriteRune(rune(code))
				p.pos += 4
			case '\\', '\'', '"', '/':
				sb.WriteByte(esc)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return nil, p.errorf("незакрытая строка")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(p.src[start:p.pos], "_", ""), 64)
	if err != nil {
		return nil, p.errorf("некорректное число %q", p.src[start:p.pos])
	}
	return value, nil
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}
	switch word := p.src[start:p.pos]; word {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null":
		return nil, nil
	case "":
		return nil, p.errorf("неожиданный символ %q", p.src[start])
	default:
		return nil, p.errorf("неизвестное значение %q", word)
	}
}
