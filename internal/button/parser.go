package button

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxButtons ограничивает количество кнопок в одном сообщении.
const MaxButtons = 8

// Definition — одна извлечённая кнопка.
type Definition struct {
	Label string
	URL   string
}

// Пары кавычек: открывающая → закрывающая
var closeQuote = map[rune]rune{
	'"': '"',
	'«': '»',
	'“': '”',
}

type span struct {
	start int
	end   int // exclusive
}

// Extract находит в тексте директивы вида `<trigger> Название "https://..."`,
// возвращает текст с вырезанными директивами и список кнопок в порядке
// появления. Триггеры матчатся без учёта регистра. Если ни одной корректной
// директивы нет, текст возвращается без изменений.
func Extract(text string, triggers []string) (string, []Definition) {
	var (
		buttons []Definition
		spans   []span
	)

	i := 0
	for {
		idx, tlen := findNext(text, i, triggers)
		if idx < 0 {
			break
		}

		// пропускаем пробелы после триггера
		j := idx + tlen
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}

		// ищем открывающую кавычку
		quotePos := -1
		var quoteChar rune
		var quoteSize int
		for k := j; k < len(text); {
			r, size := utf8.DecodeRuneInString(text[k:])
			if _, ok := closeQuote[r]; ok {
				quotePos, quoteChar, quoteSize = k, r, size
				break
			}
			k += size
		}
		if quotePos < 0 {
			i = j
			continue
		}

		label := strings.TrimSpace(text[j:quotePos])
		if label == "" {
			i = quotePos + quoteSize
			continue
		}

		closeChar := closeQuote[quoteChar]
		urlStart := quotePos + quoteSize
		rel := strings.Index(text[urlStart:], string(closeChar))
		if rel < 0 {
			i = urlStart
			continue
		}
		urlEnd := urlStart + rel

		rawURL := strings.TrimSpace(text[urlStart:urlEnd])
		spanEnd := urlEnd + utf8.RuneLen(closeChar)
		if !IsAllowedURL(rawURL) {
			i = spanEnd
			continue
		}

		buttons = append(buttons, Definition{Label: label, URL: rawURL})
		spans = append(spans, span{start: idx, end: spanEnd})
		i = spanEnd

		if len(buttons) >= MaxButtons {
			break
		}
	}

	if len(buttons) == 0 {
		return text, nil
	}

	// вырезаем спаны (они уже упорядочены и не пересекаются)
	var sb strings.Builder
	last := 0
	for _, s := range spans {
		sb.WriteString(text[last:s.start])
		last = s.end
	}
	sb.WriteString(text[last:])

	clean := strings.Join(strings.Fields(sb.String()), " ")
	if clean == "" {
		// Telegram не принимает пустой текст при редактировании
		clean = " "
	}
	return clean, buttons
}

// findNext ищет ближайшее вхождение любого триггера начиная с start.
// Возвращает позицию и длину совпадения в байтах исходной строки,
// (-1, 0) — если вхождений больше нет.
func findNext(text string, start int, triggers []string) (int, int) {
	best, blen := -1, 0
	for _, t := range triggers {
		if t == "" {
			continue
		}
		j, n := indexFold(text, start, t)
		if j < 0 {
			continue
		}
		if best < 0 || j < best {
			best, blen = j, n
		}
	}
	return best, blen
}

// indexFold — strings.Index без учёта регистра. Сравнение идёт поверх
// исходной строки: ToLower умеет менять длину в байтах (знак кельвина
// U+212A — 3 байта, k — 1), а спаны должны резаться по оригинальным позициям.
func indexFold(text string, start int, needle string) (int, int) {
	for i := start; i < len(text); {
		if n := foldPrefixLen(text[i:], needle); n > 0 {
			return i, n
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, 0
}

// foldPrefixLen возвращает длину в байтах префикса s, по рунам совпадающего
// с needle без учёта регистра, или 0.
func foldPrefixLen(s, needle string) int {
	n := 0
	for _, nr := range needle {
		if n >= len(s) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if unicode.ToLower(r) != unicode.ToLower(nr) {
			return 0
		}
		n += size
	}
	return n
}
