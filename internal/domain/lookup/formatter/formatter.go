// Package formatter renders lookup results and history stats as Telegram HTML messages.
// Every function here is pure; the current time is always passed in.
package formatter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/horrygame/tg-finding/internal/domain/lookup/consts"
	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

// TimeLayout is how timestamps are shown to users
const TimeLayout = "02.01.2006, 15:04:05"

var kindLabels = map[entities.EntityKind]string{
	entities.KindPrivate:    "👤 Личный аккаунт",
	entities.KindBot:        "🤖 Бот",
	entities.KindGroup:      "👥 Группа",
	entities.KindSupergroup: "👥 Супергруппа",
	entities.KindChannel:    "📢 Канал",
}

var printer = message.NewPrinter(language.Russian)

// KindLabel returns the human label of an entity kind
func KindLabel(kind entities.EntityKind) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return html.EscapeString(string(kind))
}

// FormatCount groups digits the Russian way, e.g. 1 500 000
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatProfile renders a found profile. Empty fields are omitted.
func FormatProfile(p *entities.ProfileRecord, at time.Time) string {
	var b strings.Builder

	b.WriteString("📋 <b>ИНФОРМАЦИЯ О ПРОФИЛЕ</b>\n\n")

	if p.Title != "" {
		line(&b, "🏷️", "Название", esc(p.Title))
	}
	if p.Handle != "" {
		line(&b, "👤", "Юзернейм", "@"+esc(p.Handle))
	}
	line(&b, "🆔", "ID", fmt.Sprintf("<code>%d</code>", p.ID))
	if p.FirstName != "" {
		line(&b, "👤", "Имя", esc(p.FirstName))
	}
	if p.LastName != "" {
		line(&b, "👤", "Фамилия", esc(p.LastName))
	}
	line(&b, "📊", "Тип", KindLabel(p.Kind))
	line(&b, "🤖", "Это бот", yesNo(p.IsBot))

	if p.MembersCount > 0 {
		line(&b, "👥", "Участников", FormatCount(p.MembersCount))
	}

	for _, flag := range privacyFlags(p) {
		b.WriteString(flag)
		b.WriteString("\n")
	}

	if p.Bio != "" {
		b.WriteString("\n📝 <b>Биография:</b>\n")
		b.WriteString(esc(p.Bio))
		b.WriteString("\n")
	}
	if p.Description != "" && p.Description != p.Bio {
		b.WriteString("\n📄 <b>Описание:</b>\n")
		b.WriteString(esc(p.Description))
		b.WriteString("\n")
	}

	if len(p.ActiveUsernames) > 0 {
		b.WriteString("\n🔗 <b>Активные юзернеймы:</b>\n")
		for i, username := range p.ActiveUsernames {
			fmt.Fprintf(&b, "%d. @%s\n", i+1, esc(username))
		}
	}

	if p.InviteLink != "" {
		b.WriteString("\n")
		line(&b, "🔗", "Ссылка-приглашение", esc(p.InviteLink))
	}

	fmt.Fprintf(&b, "\n⏰ <b>Запрос выполнен:</b> %s", at.Format(TimeLayout))

	return b.String()
}

// FormatSearching is the notice sent before a fetch starts
func FormatSearching(handle string) string {
	return fmt.Sprintf("🔍 <b>Ищу информацию о @%s...</b>", esc(handle))
}

// FormatRandomSearching is the notice sent before a random fetch starts
func FormatRandomSearching() string {
	return "🎲 <b>Ищу случайный публичный профиль...</b>"
}

// FormatFailure renders a failed lookup. The wording depends on where the query came from.
func FormatFailure(handle string, outcome entities.LookupOutcome, source string) string {
	h := esc(handle)
	reason := esc(outcome.Reason())

	switch source {
	case consts.SourceRandom:
		return fmt.Sprintf("❌ Не удалось получить информацию о @%s\nПричина: %s", h, reason)
	case consts.SourceText:
		return fmt.Sprintf("❌ <b>Не удалось найти @%s</b>\n\n"+
			"<b>Причина:</b> %s\n\n"+
			"Попробуйте:\n"+
			"• Проверить правильность юзернейма\n"+
			"• Использовать другой юзернейм\n"+
			"• Или попробовать команду /random", h, reason)
	default:
		return fmt.Sprintf("❌ <b>Не удалось получить информацию о @%s</b>\n\n"+
			"<b>Возможные причины:</b>\n"+
			"• Профиль не существует\n"+
			"• Профиль приватный\n"+
			"• Ошибка соединения\n\n"+
			"<b>Сообщение:</b> %s", h, reason)
	}
}

// FormatInvalidHandle is the reply for a query that fails validation
func FormatInvalidHandle(minLength, maxLength int) string {
	return fmt.Sprintf("❌ <b>Некорректный юзернейм!</b>\n"+
		"Юзернейм должен содержать только буквы, цифры и подчеркивания (%d-%d символа).", minLength, maxLength)
}

// FormatInfoUsage is the reply for /info without an argument
func FormatInfoUsage() string {
	return "❌ <b>Укажите юзернейм!</b>\n\n" +
		"Примеры:\n" +
		"<code>/info telegram</code>\n" +
		"<code>/info @github</code>\n" +
		"<code>/info elonmusk</code>"
}

// FormatRateLimited is the reply for a throttled user
func FormatRateLimited() string {
	return "⏳ Слишком много запросов. Подождите немного и попробуйте снова."
}

// FormatStats renders history stats
func FormatStats(stats entities.HistoryStats) string {
	var b strings.Builder

	b.WriteString("📊 <b>СТАТИСТИКА ПОИСКА</b>\n\n")
	fmt.Fprintf(&b, "📈 Всего запросов: %d\n", stats.Total)
	fmt.Fprintf(&b, "✅ Успешных: %d\n", stats.Successful)
	fmt.Fprintf(&b, "❌ Неудачных: %d\n", stats.Failed)
	fmt.Fprintf(&b, "🎯 Успешность: %s%%\n\n", FormatRate(stats.SuccessRate))

	if !stats.LastEntryAt.IsZero() {
		fmt.Fprintf(&b, "⏰ Последний поиск: %s\n\n", stats.LastEntryAt.Format(TimeLayout))
	}

	if len(stats.TopHandles) > 0 {
		b.WriteString("🔥 <b>Популярные запросы:</b>\n")
		for i, hc := range stats.TopHandles {
			fmt.Fprintf(&b, "%d. @%s: %d раз\n", i+1, esc(hc.Handle), hc.Count)
		}
	} else {
		b.WriteString("📭 Пока нет статистики по запросам\n")
	}

	b.WriteString("\n💡 <b>Совет:</b> Попробуйте /random для нового поиска!")

	return b.String()
}

// FormatRate prints a success rate with one decimal place
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f", rate)
}

func privacyFlags(p *entities.ProfileRecord) []string {
	var flags []string
	if p.HasPrivateForwards {
		flags = append(flags, "🔒 Пересылка сообщений ограничена")
	}
	if p.JoinToSendMessages {
		flags = append(flags, "✍️ Писать могут только участники")
	}
	if p.JoinByRequest {
		flags = append(flags, "📨 Вступление по заявке")
	}
	if p.HasRestrictedVoiceAndVideo {
		flags = append(flags, "🎙️ Голосовые и видеосообщения ограничены")
	}
	return flags
}

func line(b *strings.Builder, icon, label, value string) {
	fmt.Fprintf(b, "%s <b>%s:</b> %s\n", icon, label, value)
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

func esc(s string) string {
	return html.EscapeString(s)
}
