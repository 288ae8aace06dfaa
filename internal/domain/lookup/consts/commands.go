// Package consts contains constants for the lookup domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart  = Command{Name: "start", Description: "Начать работу с ботом"}
	CommandHelp   = Command{Name: "help", Description: "Помощь по командам"}
	CommandRandom = Command{Name: "random", Description: "Случайный публичный профиль"}
	CommandInfo   = Command{Name: "info", Description: "Информация о профиле: /info username"}
	CommandStats  = Command{Name: "stats", Description: "Статистика поиска"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandRandom,
	CommandInfo,
	CommandStats,
}

// Lookup sources, recorded with every history entry and lookup event
const (
	SourceRandom = "random"
	SourceInfo   = "info"
	SourceText   = "text"
)

// SuccessReasons is the history reason stored for a successful lookup, per source
var SuccessReasons = map[string]string{
	SourceRandom: "Случайный поиск",
	SourceInfo:   "Успешный поиск",
	SourceText:   "Прямой ввод",
}

// InvalidHandleReason is the history reason stored when a query fails validation
const InvalidHandleReason = "Некорректный юзернейм"

// RecentLogsLimit is how many entries the log-reading endpoint returns
const RecentLogsLimit = 20

// TopHandlesLimit is how many handles the stats report ranks
const TopHandlesLimit = 5
