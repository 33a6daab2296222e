package bot

// Тексты интерфейса. HTML, как и везде в ответах бота.
const (
	textStart = `👋 Привет! Я делаю <b>кнопки-ссылки</b> под твоими сообщениями.

Напиши в привязанном канале сообщение с директивой:

<code>/button Текст кнопки "https://example.com"</code>

— и я перезалью его уже с кнопкой. До 8 кнопок на сообщение.

/howto — как всё подключить
/plans — тарифы и оплата`

	textHowto = `🛠 <b>Как подключить</b>

1. Купи подписку: /plans
2. Добавь бота <b>администратором</b> в свой канал (право публиковать и удалять сообщения).
3. Привяжи канал: нажми «Привязать канал» и перешли мне любой пост из него.
4. Пиши посты с директивами:

<code>/button Текст "https://example.com"</code>

Можно несколько директив в одном сообщении (до 8 кнопок). Схемы ссылок: http, https, tg.

Вместо <code>/button</code> можно упоминать бота: <code>@%s Текст "https://example.com"</code>`

	textPlans = `💳 <b>Тарифы</b>

Оплата в Telegram Stars ⭐. Подарочная подписка — скидка %d%% (если у тебя уже есть активная подписка).

Выбери план:`

	textGiftAsk = `🎁 Кому дарим <b>%s</b>?

Пришли @username получателя или его числовой ID. Можно просто ответить этим сообщением на любое сообщение получателя.

/cancel — отмена`

	textGiftProvisional = `🎁 Подписка <b>%s</b> оплачена, но получатель @%s ещё не писал боту.

Подписка пока закреплена за тобой. Когда получатель запустит бота, отправь:

<code>/activategift @%s</code>

— и подписка перейдёт к нему с сохранением срока.`

	textGiftReceived = `🎁 Тебе подарили подписку <b>%s</b>! Даритель: %s.

Нажми /start — кнопки уже доступны.`

	textNoSub = `У тебя нет активной подписки. Купить: /plans`

	textLinkAsk = `🔗 Перешли мне любой пост из канала, который хочешь привязать.

Бот должен быть <b>администратором</b> канала, а ты — его владельцем или администратором.

/cancel — отмена`

	textCancelled = "Ок, отменил."
)
