package button_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w1nReach/w1nReachBotik/internal/button"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	triggers := []string{"/button"}

	t.Run("no directives returns text unchanged", func(t *testing.T) {
		t.Parallel()
		text := "просто текст без каких-либо\nдиректив и кнопок"
		clean, buttons := button.Extract(text, triggers)
		assert.Equal(t, text, clean)
		assert.Empty(t, buttons)
	})

	t.Run("two directives extracted in order", func(t *testing.T) {
		t.Parallel()
		text := `/button Open "https://a.com" some other text /button Go "tg://x"`
		clean, buttons := button.Extract(text, triggers)
		require.Len(t, buttons, 2)
		assert.Equal(t, button.Definition{Label: "Open", URL: "https://a.com"}, buttons[0])
		assert.Equal(t, button.Definition{Label: "Go", URL: "tg://x"}, buttons[1])
		assert.Equal(t, "some other text", clean)
	})

	t.Run("disallowed scheme leaves text untouched", func(t *testing.T) {
		t.Parallel()
		text := `/button Bad "ftp://nope"`
		clean, buttons := button.Extract(text, triggers)
		assert.Equal(t, text, clean)
		assert.Empty(t, buttons)
	})

	t.Run("trigger match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		clean, buttons := button.Extract(`/BUTTON Открыть "https://a.com" привет`, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, "Открыть", buttons[0].Label)
		assert.Equal(t, "привет", clean)
	})

	t.Run("length-changing case folds do not shift spans", func(t *testing.T) {
		t.Parallel()
		// знак кельвина (U+212A, 3 байта) lowercase-ится в k (1 байт)
		text := "Kelvin Kelvin /button Open \"https://a.com\" tail"
		clean, buttons := button.Extract(text, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, button.Definition{Label: "Open", URL: "https://a.com"}, buttons[0])
		assert.Equal(t, "Kelvin Kelvin tail", clean)
	})

	t.Run("typographic quotes pair correctly", func(t *testing.T) {
		t.Parallel()
		clean, buttons := button.Extract(`до /button Сайт «https://a.com» после`, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, "Сайт", buttons[0].Label)
		assert.Equal(t, "https://a.com", buttons[0].URL)
		assert.Equal(t, "до после", clean)

		_, buttons = button.Extract(`/button Сайт “https://a.com”`, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, "https://a.com", buttons[0].URL)
	})

	t.Run("mismatched typographic quotes are skipped", func(t *testing.T) {
		t.Parallel()
		// «...” — закрывающей » нет, директива не матчится
		text := `/button Сайт «https://a.com” хвост`
		clean, buttons := button.Extract(text, triggers)
		assert.Empty(t, buttons)
		assert.Equal(t, text, clean)
	})

	t.Run("unterminated quote leaves text untouched", func(t *testing.T) {
		t.Parallel()
		text := `/button Ок "tg://x`
		clean, buttons := button.Extract(text, triggers)
		assert.Empty(t, buttons)
		assert.Equal(t, text, clean)
	})

	t.Run("empty label is not accepted", func(t *testing.T) {
		t.Parallel()
		text := `/button "https://a.com"`
		clean, buttons := button.Extract(text, triggers)
		assert.Empty(t, buttons)
		assert.Equal(t, text, clean)
	})

	t.Run("scan recovers after empty label", func(t *testing.T) {
		t.Parallel()
		// первая директива без лейбла отбрасывается, вторая матчится
		text := `/button "оставить /button Ок "tg://x"`
		clean, buttons := button.Extract(text, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, button.Definition{Label: "Ок", URL: "tg://x"}, buttons[0])
		assert.Equal(t, `/button "оставить`, clean)
	})

	t.Run("bot mention works as trigger", func(t *testing.T) {
		t.Parallel()
		clean, buttons := button.Extract(
			`текст @TestBot Открыть "https://a.com"`,
			[]string{"/button", "@testbot"},
		)
		require.Len(t, buttons, 1)
		assert.Equal(t, "текст", clean)
	})

	t.Run("whitespace collapsed across removed spans", func(t *testing.T) {
		t.Parallel()
		clean, buttons := button.Extract(
			"строка один\n/button Кнопка \"https://a.com\"\n\nстрока два",
			triggers,
		)
		require.Len(t, buttons, 1)
		assert.Equal(t, "строка один строка два", clean)
	})

	t.Run("message of only directives yields single space", func(t *testing.T) {
		t.Parallel()
		clean, buttons := button.Extract(`/button Кнопка "https://a.com"`, triggers)
		require.Len(t, buttons, 1)
		assert.Equal(t, " ", clean)
	})

	t.Run("cap at eight buttons", func(t *testing.T) {
		t.Parallel()
		var sb strings.Builder
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&sb, "/button Кнопка%d \"https://a.com/%d\" ", i, i)
		}
		clean, buttons := button.Extract(sb.String(), triggers)
		assert.Len(t, buttons, button.MaxButtons)
		// хвост за восьмой директивой остаётся в тексте
		assert.Contains(t, clean, "/button Кнопка8")
	})

	t.Run("trigger without any quote passes through", func(t *testing.T) {
		t.Parallel()
		text := "нажми /button и посмотри что будет"
		clean, buttons := button.Extract(text, triggers)
		assert.Empty(t, buttons)
		assert.Equal(t, text, clean)
	})
}
