package tui

import "unicode/utf8"

const maxInputLen = 120

// editRune applies a keystroke to an inline text field.
func editRune(text, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if utf8.RuneCountInString(key) != 1 || utf8.RuneCountInString(text) >= maxInputLen {
		return text
	}
	return text + key
}

func mask(s string) string {
	out := make([]rune, utf8.RuneCountInString(s))
	for i := range out {
		out[i] = '•'
	}
	return string(out)
}
